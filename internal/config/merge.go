package config

import "maps"

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy: JournalPath, LogFile and Theme are global-only.
	merged := *global

	merged.Hooks = mergeHooks(global.Hooks, local.Hooks)

	if local.MainBranch != "" {
		merged.MainBranch = local.MainBranch
	}

	merged.Project.SourceDir = pick(local.Project.SourceDir, global.Project.SourceDir)
	merged.Project.MarkerFile = pick(local.Project.MarkerFile, global.Project.MarkerFile)
	merged.Project.VersionVariable = pick(local.Project.VersionVariable, global.Project.VersionVariable)

	merged.Release.BranchFormat = pick(local.Release.BranchFormat, global.Release.BranchFormat)
	merged.Release.CommitMessage = pick(local.Release.CommitMessage, global.Release.CommitMessage)
	merged.Release.TagFormat = pick(local.Release.TagFormat, global.Release.TagFormat)

	merged.Changelog.File = pick(local.Changelog.File, global.Changelog.File)
	merged.Changelog.Template = pick(local.Changelog.Template, global.Changelog.Template)
	if local.Changelog.CreateMissing != nil {
		merged.Changelog.CreateMissing = *local.Changelog.CreateMissing
	}

	if local.Merge.NoFF != nil {
		merged.Merge.NoFF = *local.Merge.NoFF
	}
	merged.Merge.Message = pick(local.Merge.Message, global.Merge.Message)

	merged.Gather.OutputDir = pick(local.Gather.OutputDir, global.Gather.OutputDir)
	merged.Gather.DocsSource = pick(local.Gather.DocsSource, global.Gather.DocsSource)
	merged.Gather.SphinxCommand = pick(local.Gather.SphinxCommand, global.Gather.SphinxCommand)
	// Extensions replace rather than append
	if len(local.Gather.Extensions) > 0 {
		merged.Gather.Extensions = append([]string(nil), local.Gather.Extensions...)
	}

	return &merged
}

// pick returns override when set, otherwise base
func pick(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

// mergeHooks merges local hooks into global hooks.
// Local hooks with the same name override global hooks.
// Local hooks with enabled=false remove the global hook.
func mergeHooks(global, local HooksConfig) HooksConfig {
	merged := HooksConfig{
		Hooks: make(map[string]Hook, len(global.Hooks)),
	}

	maps.Copy(merged.Hooks, global.Hooks)

	for name, hook := range local.Hooks {
		if !hook.IsEnabled() {
			delete(merged.Hooks, name)
			continue
		}
		merged.Hooks[name] = hook
	}

	return merged
}
