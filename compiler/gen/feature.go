package gen

var (
	// FeatureDocs provides a feature-flag for TSDoc comments on the generated
	// client, its configuration interfaces and its destroy method.
	FeatureDocs = Feature{
		Name:        "docs",
		Stage:       Stable,
		Default:     true,
		Description: "Writes TSDoc comments for the client class and its configuration types",
	}

	// FeatureEndpoints provides a feature-flag for endpoint rule set support.
	// When disabled, endpointRuleSet declarations in the model are ignored and
	// no endpoint parameter fragments or resolution step are generated.
	FeatureEndpoints = Feature{
		Name:        "endpoints",
		Stage:       Stable,
		Default:     true,
		Description: "Wires endpoint parameter resolution into clients of services declaring endpoint rules",
	}

	// FeatureCache provides a feature-flag for reusing the output of previous runs.
	// Entries are keyed by a fingerprint of the service, its extensions and the
	// generation options, so any change to the inputs regenerates the client.
	FeatureCache = Feature{
		Name:        "cache",
		Stage:       Beta,
		Default:     false,
		Description: "Reuses generated clients from previous runs when their inputs are unchanged",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureDocs,
		FeatureEndpoints,
		FeatureCache,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or disappear.
	Experimental

	// Alpha features are complete but their options may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features are Beta features that have been in use for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the client codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the feature-flag with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// defaultFeatures returns the feature-flags enabled by default.
func defaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}
