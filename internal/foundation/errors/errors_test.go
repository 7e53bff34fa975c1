package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "designpipe.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		file, ok := err.Context().GetString("file")
		assert.True(t, ok)
		assert.Equal(t, "designpipe.yaml", file)
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ConfigError("test error").Build())

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.True(t, HasSeverity(err, SeverityFatal))
		assert.Equal(t, CategoryConfig, GetCategory(err))

		classified, ok := AsClassified(err)
		require.True(t, ok)
		assert.False(t, classified.CanRetry())
		assert.True(t, classified.IsFatal())
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := PassError("pass failed").WithContext("pass", "font_syntax").Build()
		derived := base.WithContext("node", 4)
		_, ok := base.Context().Get("node")
		assert.False(t, ok)
		v, ok := derived.Context().Get("node")
		assert.True(t, ok)
		assert.Equal(t, 4, v)
	})

	t.Run("Is matches category and message", func(t *testing.T) {
		a := MergeError("no trees").Build()
		b := MergeError("no trees").WithContext("x", 1).Build()
		assert.ErrorIs(t, a, b)
		assert.NotErrorIs(t, a, ParseError("no trees").Build())
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryAsset, "asset read failed").
			Warning().
			Retryable().
			WithContext("asset", "assets/logo.svg").
			WithContextMap(ErrorContext{"bucket": "designs"}).
			Build()

		assert.Equal(t, CategoryAsset, err.Category())
		assert.Equal(t, SeverityWarning, err.Severity())
		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		assert.ErrorIs(t, err, originalErr)
		bucket, _ := err.Context().GetString("bucket")
		assert.Equal(t, "designs", bucket)
		assert.Equal(t, "[asset:warning] asset read failed: original error", err.Error())
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityError, RetryUserAction},
			{"ParseError", ParseError("test"), CategoryParse, SeverityFatal, RetryNever},
			{"PassError", PassError("test"), CategoryPass, SeverityError, RetryNever},
			{"MergeError", MergeError("test"), CategoryMerge, SeverityFatal, RetryNever},
			{"AssetError", AssetError("test"), CategoryAsset, SeverityError, RetryBackoff},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryNever},
			{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("key1", "value1")
	ctx = ctx.Set("key2", 42)

	v1, ok := ctx.GetString("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", v1)
	_, ok = ctx.GetString("key2")
	assert.False(t, ok)

	merged := ctx.Merge(ErrorContext{"key1": "overridden"})
	v1, _ = merged.GetString("key1")
	assert.Equal(t, "overridden", v1)
	assert.Equal(t, ctx, ErrorContext(nil).Merge(ctx))
}
