package configloader

import "github.com/yaklabco/quickbook/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Strings: override overwrites base if non-empty
//   - Pointers: override overwrites base if non-nil, so an explicit false or 0 wins
//   - Slices: include paths and defines accumulate, base first
//   - CLI-only fields: override wins when set
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.ImageLocation != "" {
		result.ImageLocation = override.ImageLocation
	}
	if override.XIncludeBase != "" {
		result.XIncludeBase = override.XIncludeBase
	}
	if override.DepsFormat != "" {
		result.DepsFormat = override.DepsFormat
	}
	if override.DiagnosticFormat != "" {
		result.DiagnosticFormat = override.DiagnosticFormat
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	result.PrettyPrint = mergePtr(base.PrettyPrint, override.PrettyPrint)
	result.SelfLinkedHeaders = mergePtr(base.SelfLinkedHeaders, override.SelfLinkedHeaders)
	result.Indent = mergePtr(base.Indent, override.Indent)
	result.LineWidth = mergePtr(base.LineWidth, override.LineWidth)
	result.Strict = mergePtr(base.Strict, override.Strict)

	// A later -I searches after the configured directories; a later -D
	// replaces an earlier definition of the same macro when applied.
	result.IncludePaths = appendUnique(base.IncludePaths, override.IncludePaths)
	result.Defines = appendUnique(base.Defines, override.Defines)

	if override.Input != "" {
		result.Input = override.Input
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.DepsOutput != "" {
		result.DepsOutput = override.DepsOutput
	}
	result.ExpectErrors = base.ExpectErrors || override.ExpectErrors
	result.Debug = base.Debug || override.Debug
	result.Watch = base.Watch || override.Watch

	return &result
}

func mergePtr[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

// appendUnique returns base followed by the entries of extra it does not
// already hold. Neither input is modified.
func appendUnique(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	result := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, item := range list {
			if !seen[item] {
				seen[item] = true
				result = append(result, item)
			}
		}
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
