// Package command provides the analyze and eval commands of a geospatial machine learning experiment.
//
// A command configuration is only produced by its builder:
//
//	cfg, err := command.NewAnalyzeCommandConfigBuilder().
//		WithTask(task.ChipClassificationConfig{}).
//		WithRootURI(rootURI).
//		WithScenes(scenes).
//		WithAnalyzers([]analyzer.Config{analyzer.StatsAnalyzerConfig{}}).
//		Build()
//
// Build returns an error matching cfgerr.ErrConfig when the task, the scenes or the analyzers (evaluators for the
// eval command) are missing. A built configuration is immutable: use ToBuilder to derive a new one. CreateCommand
// binds the configuration to an executable Command, which resolves analyzer and evaluator implementations through
// the plugin registries when it runs.
package command
