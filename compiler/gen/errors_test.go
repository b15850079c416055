package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupportedProtocolError(t *testing.T) {
	t.Run("Error message names service and protocol", func(t *testing.T) {
		err := NewUnsupportedProtocolError("example.weather#Weather", "mqtt")

		assert.Contains(t, err.Error(), "clientgen: service example.weather#Weather")
		assert.Contains(t, err.Error(), "mqtt")
	})

	t.Run("Is matches ErrUnsupportedProtocol", func(t *testing.T) {
		err := NewUnsupportedProtocolError("svc", "mqtt")
		assert.True(t, errors.Is(err, ErrUnsupportedProtocol))
		assert.False(t, errors.Is(err, ErrAmbiguousAlias))
	})

	t.Run("IsUnsupportedProtocol helper", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewUnsupportedProtocolError("svc", "mqtt"))
		assert.True(t, IsUnsupportedProtocol(err))
		assert.False(t, IsUnsupportedProtocol(errors.New("other")))
	})
}

func TestFragmentAliasError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewFragmentAliasError("svc", "EndpointInputConfig", "fragment shadows a reserved endpoint alias", "region", "custom")

		assert.Contains(t, err.Error(), "clientgen: ambiguous fragment alias")
		assert.Contains(t, err.Error(), `"EndpointInputConfig"`)
		assert.Contains(t, err.Error(), "in service svc")
		assert.Contains(t, err.Error(), "(extensions: region, custom)")
		assert.Contains(t, err.Error(), "reserved endpoint alias")
	})

	t.Run("Error message without alias", func(t *testing.T) {
		err := &FragmentAliasError{Service: "svc", Message: "test"}
		assert.NotContains(t, err.Error(), `""`)
		assert.NotContains(t, err.Error(), "extensions")
	})

	t.Run("Is matches ErrAmbiguousAlias", func(t *testing.T) {
		err := NewFragmentAliasError("svc", "A", "")
		assert.True(t, err.Is(ErrAmbiguousAlias))
	})

	t.Run("IsFragmentAliasError helper", func(t *testing.T) {
		assert.True(t, IsFragmentAliasError(NewFragmentAliasError("svc", "A", "")))
		assert.False(t, IsFragmentAliasError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Features", "bogus", "unexpected feature name")

		assert.Contains(t, err.Error(), "clientgen: config error")
		assert.Contains(t, err.Error(), "Features")
		assert.Contains(t, err.Error(), "bogus")
		assert.Contains(t, err.Error(), "unexpected feature name")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Target")
		assert.Contains(t, err.Error(), "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, err.Is(ErrMissingConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewGenerationError("write", "example.weather#Weather", "cannot write file", cause)
		err.File = "WeatherClient.ts"

		assert.Contains(t, err.Error(), "clientgen: generation error")
		assert.Contains(t, err.Error(), "in phase write")
		assert.Contains(t, err.Error(), "for service example.weather#Weather")
		assert.Contains(t, err.Error(), "(file: WeatherClient.ts)")
		assert.Contains(t, err.Error(), "cannot write file")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("Error message with phase only", func(t *testing.T) {
		err := &GenerationError{Phase: "writer"}
		assert.Contains(t, err.Error(), "in phase writer")
		assert.NotContains(t, err.Error(), "service")
		assert.NotContains(t, err.Error(), "file")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := NewUnsupportedProtocolError("svc", "mqtt")
		err := NewGenerationError("service", "svc", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, ErrUnsupportedProtocol))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		err := NewGenerationError("writer", "", "", nil)
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}
