/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


// Package pipeline orchestrates a release from version decision to publication
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/actions"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/changelog"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/decision"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/git"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/hooks"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/manifest"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/metrics"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/notice"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/platform"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/publish"
	"github.com/AlaudaDevops/toolbox/auto-release/pkg/runner"
)

// Step names used in logs and metrics
const (
	StepReadVersion     = "read-version"
	StepCollectPR       = "collect-pr"
	StepDecide          = "decide"
	StepBumpManifest    = "bump-manifest"
	StepUpdateChangelog = "update-changelog"
	StepPreCommit       = "pre-commit"
	StepCommit          = "commit"
	StepPrePublish      = "pre-publish"
	StepPublish         = "publish"
	StepTag             = "tag"
	StepRelease         = "release"
	StepOutput          = "output"
	StepNotify          = "notify"
)

// Dependencies are the collaborators of a pipeline
type Dependencies struct {
	// ReadRunner runs the commands that only touch the working tree
	ReadRunner runner.Runner
	// WriteRunner runs commit, push, publish and tag commands
	WriteRunner runner.Runner
	// Decider chooses the version bump and changelog entry
	Decider decision.Decider
	// Platform is optional and used for PR lookup and release creation
	Platform platform.Client
	// Notifier is optional
	Notifier notice.Notifier
	// Recorder records step metrics
	Recorder metrics.Recorder
}

// Result describes a finished release
type Result struct {
	// PreviousVersion is the manifest version before the release
	PreviousVersion string
	// Decision is the validated version decision
	Decision *decision.VersionDecision
	// Tag is the created tag
	Tag string
	// ReleaseURL is the platform release page, empty when none was created
	ReleaseURL string
}

// Pipeline orchestrates the release process
type Pipeline struct {
	// config holds pipeline configuration
	config *config.Config
	deps   Dependencies
}

// NewPipeline creates a new release pipeline
func NewPipeline(cfg *config.Config, deps Dependencies) *Pipeline {
	if deps.WriteRunner == nil {
		deps.WriteRunner = deps.ReadRunner
	}
	if deps.Recorder == nil {
		deps.Recorder = &metrics.NoOpRecorder{}
	}
	return &Pipeline{
		config: cfg,
		deps:   deps,
	}
}

// Run executes every release step in order and stops at the first failure.
// Nothing is rolled back.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logrus.Infof("Starting release pipeline for project: %s", p.config.WorkDir)
	if p.config.DryRun {
		logrus.Warn("Dry run: remote-mutating commands are logged instead of executed")
	}
	defer p.pushMetrics(ctx)

	result := &Result{}
	localGit := git.NewOperator(p.deps.ReadRunner)
	remoteGit := git.NewOperator(p.deps.WriteRunner)

	var current string
	err := p.step(StepReadVersion, func() (err error) {
		current, err = manifest.ReadVersion(p.path(p.config.Manifest.Path))
		return err
	})
	if err != nil {
		return nil, err
	}
	result.PreviousVersion = current
	logrus.Infof("Current version: %s", current)

	var pr decision.PRDetails
	err = p.step(StepCollectPR, func() (err error) {
		pr, err = p.collectPRDetails(ctx, localGit)
		return err
	})
	if err != nil {
		return nil, err
	}

	var d *decision.VersionDecision
	err = p.step(StepDecide, func() (err error) {
		d, err = p.decide(ctx, current, pr)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Decision = d
	result.Tag = p.config.Git.TagName(d.NewVersion)

	err = p.step(StepBumpManifest, func() error {
		return manifest.NewBumper(p.deps.ReadRunner, p.config.Manifest.BumpCommand).Bump(ctx, d.NewVersion)
	})
	if err != nil {
		return nil, err
	}

	err = p.step(StepUpdateChangelog, func() error {
		return changelog.UpdateFile(p.path(p.config.Changelog.Path), d.ChangelogEntry)
	})
	if err != nil {
		return nil, err
	}

	hookEnv := map[string]string{
		"RELEASE_PREVIOUS_VERSION": current,
		"RELEASE_VERSION":          d.NewVersion,
		"RELEASE_BUMP":             d.Bump.String(),
		"RELEASE_TAG":              result.Tag,
	}

	if p.config.Hooks.PreCommit != nil {
		err = p.step(StepPreCommit, func() error {
			return hooks.NewScriptExecutor(p.deps.ReadRunner).ExecuteScript(ctx, hooks.StagePreCommit, p.config.Hooks.PreCommit, hookEnv)
		})
		if err != nil {
			return nil, err
		}
	}

	err = p.step(StepCommit, func() error {
		return p.commitAndPush(ctx, remoteGit, d.NewVersion)
	})
	if err != nil {
		return nil, err
	}

	if p.config.Hooks.PrePublish != nil {
		err = p.step(StepPrePublish, func() error {
			return hooks.NewScriptExecutor(p.deps.WriteRunner).ExecuteScript(ctx, hooks.StagePrePublish, p.config.Hooks.PrePublish, hookEnv)
		})
		if err != nil {
			return nil, err
		}
	}

	if p.config.Publish.NeedPublish() {
		err = p.step(StepPublish, func() error {
			return publish.NewPublisher(p.deps.WriteRunner, p.config.Publish).Publish(ctx, d.NewVersion)
		})
		if err != nil {
			return nil, err
		}
	} else {
		logrus.Info("Publishing is disabled, skipping package and publish")
	}

	err = p.step(StepTag, func() error {
		if err := remoteGit.CreateTag(ctx, result.Tag, config.Render(p.config.Git.TagMessage, d.NewVersion)); err != nil {
			return err
		}
		return remoteGit.PushTags(ctx)
	})
	if err != nil {
		return nil, err
	}

	if p.config.Platform.NeedCreateRelease() {
		err = p.step(StepRelease, func() (err error) {
			result.ReleaseURL, err = p.createRelease(ctx, result.Tag, d.ChangelogEntry)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	err = p.step(StepOutput, func() error {
		return actions.NewOutputWriter(p.config.Output.GitHubOutput).WriteRelease(d.NewVersion, d.ChangelogEntry)
	})
	if err != nil {
		return nil, err
	}

	p.deps.Recorder.RecordRelease(d.Bump.String())
	logrus.Infof("Successfully released version %s", d.NewVersion)

	if p.deps.Notifier != nil {
		p.sendNotification(ctx, result)
	}

	logrus.Info("✅ Pipeline completed successfully!")
	return result, nil
}

// step runs fn and records its outcome
func (p *Pipeline) step(name string, fn func() error) error {
	logrus.Debugf("Running step %s", name)
	start := time.Now()
	err := fn()

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	p.deps.Recorder.RecordStep(name, status, time.Since(start))

	if err != nil {
		logrus.Debugf("Step %s failed: %v", name, err)
		return err
	}
	logrus.Infof("✅ %s completed successfully", name)
	return nil
}

// path resolves a configured file relative to the working directory
func (p *Pipeline) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.config.WorkDir, name)
}

func (p *Pipeline) collectPRDetails(ctx context.Context, g *git.Operator) (decision.PRDetails, error) {
	pr := decision.PRDetails{
		Title: p.config.PR.Title,
		Body:  p.config.PR.Body,
	}

	if pr.Title == "" && p.config.PR.Number > 0 && p.deps.Platform != nil {
		logrus.Infof("PR title not provided, fetching pull request #%d from %s", p.config.PR.Number, p.deps.Platform.GetPlatformType())
		fetched, err := p.deps.Platform.GetPullRequest(ctx, p.config.PR.Number)
		if err != nil {
			return pr, err
		}
		pr.Title = fetched.Title
		if pr.Body == "" {
			pr.Body = fetched.Body
		}
	}
	if pr.Body == "" {
		pr.Body = decision.DefaultPRBody
	}

	commits, err := g.CommitLog(ctx, p.config.PR.BaseSHA, p.config.PR.HeadSHA)
	if err != nil {
		return pr, err
	}
	pr.Commits = commits

	logrus.Infof("PR Title: %s", pr.Title)
	logrus.Debugf("Commits:\n%s", pr.Commits)
	return pr, nil
}

func (p *Pipeline) decide(ctx context.Context, current string, pr decision.PRDetails) (*decision.VersionDecision, error) {
	logrus.Info("Analyzing changes...")
	d, err := p.deps.Decider.Decide(ctx, current, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to decide version bump: %w", err)
	}
	if err := decision.Validate(current, d); err != nil {
		return nil, err
	}

	logrus.Infof("Version bump: %s", d.Bump)
	logrus.Infof("New version: %s", d.NewVersion)
	logrus.Infof("Changelog entry:\n%s", d.ChangelogEntry)
	return d, nil
}

func (p *Pipeline) commitAndPush(ctx context.Context, g *git.Operator, newVersion string) error {
	if err := g.ConfigureIdentity(ctx, p.config.Git.UserName, p.config.Git.UserEmail); err != nil {
		return err
	}

	files := []string{p.config.Manifest.Path}
	if p.config.Manifest.Lockfile != "" {
		if _, err := os.Stat(p.path(p.config.Manifest.Lockfile)); err == nil {
			files = append(files, p.config.Manifest.Lockfile)
		} else {
			logrus.Debugf("Lockfile %s not found, not committing it", p.config.Manifest.Lockfile)
		}
	}
	files = append(files, p.config.Changelog.Path)

	if err := g.CommitFiles(ctx, config.Render(p.config.Git.CommitMessage, newVersion), files...); err != nil {
		return err
	}
	return g.Push(ctx)
}

func (p *Pipeline) createRelease(ctx context.Context, tag, body string) (string, error) {
	if p.config.DryRun {
		logrus.Infof("[dry-run] Would create %s release %s", p.config.Platform.Provider, tag)
		return "", nil
	}
	if p.deps.Platform == nil {
		return "", fmt.Errorf("release creation requires a platform client")
	}

	url, err := p.deps.Platform.CreateRelease(ctx, platform.Release{
		TagName: tag,
		Name:    tag,
		Body:    body,
	})
	if err != nil {
		return "", err
	}
	logrus.Infof("Created release %s: %s", tag, url)
	return url, nil
}

// sendNotification reports the release; failures are logged and not fatal
func (p *Pipeline) sendNotification(ctx context.Context, result *Result) {
	if p.config.DryRun {
		logrus.Info("[dry-run] Skipping notification")
		return
	}

	logrus.Info("Sending notification...")
	info := notice.ReleaseInfo{
		Repository:      p.config.Platform.Repository,
		PreviousVersion: result.PreviousVersion,
		Version:         result.Decision.NewVersion,
		Bump:            result.Decision.Bump.String(),
		Tag:             result.Tag,
		ChangelogEntry:  result.Decision.ChangelogEntry,
		ReleaseURL:      result.ReleaseURL,
	}

	start := time.Now()
	if err := p.deps.Notifier.Notify(ctx, info); err != nil {
		p.deps.Recorder.RecordStep(StepNotify, metrics.StatusError, time.Since(start))
		logrus.Warnf("Warning: Failed to send notification: %v", err)
		return
	}
	p.deps.Recorder.RecordStep(StepNotify, metrics.StatusSuccess, time.Since(start))
	logrus.Info("✅ Notification sent successfully")
}

// pushMetrics sends the recorded metrics when a Pushgateway is configured
func (p *Pipeline) pushMetrics(ctx context.Context) {
	pusher, ok := p.deps.Recorder.(metrics.Pusher)
	if !ok || p.config.Metrics.Pushgateway == "" {
		return
	}
	if err := pusher.Push(context.WithoutCancel(ctx), p.config.Metrics.Pushgateway, p.config.Metrics.Job); err != nil {
		logrus.Warnf("Warning: %v", err)
	}
}
