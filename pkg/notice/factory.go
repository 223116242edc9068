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


// Package notice provides release notification functionality
package notice

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
)

// ReleaseInfo summarizes a finished release
type ReleaseInfo struct {
	// Repository is the "owner/name" of the released repository
	Repository string
	// PreviousVersion is the manifest version before the release
	PreviousVersion string
	// Version is the released version
	Version string
	// Bump is the bump kind (patch, minor, major)
	Bump string
	// Tag is the pushed tag
	Tag string
	// ChangelogEntry is the changelog section of the release
	ChangelogEntry string
	// ReleaseURL is the platform release page, when one was created
	ReleaseURL string
}

// Notifier sends release notifications
type Notifier interface {
	// Notify sends a notification for the release
	Notify(ctx context.Context, info ReleaseInfo) error
}

// NewNotifier creates a new notifier based on the configuration
func NewNotifier(noticeConfig config.NoticeConfig) (Notifier, error) {
	switch noticeConfig.Type {
	case "wecom", "wechat":
		webhookURL, ok := noticeConfig.Params["webhook_url"].(string)
		if !ok || webhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required for WeChat Work notifier")
		}
		logrus.Debug("Creating WeChat Work notifier")
		return NewWeComNotifier(webhookURL), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported notification type: %s", noticeConfig.Type)
	}
}

// IsNotificationEnabled checks if notification is enabled in the configuration
func IsNotificationEnabled(noticeConfig config.NoticeConfig) bool {
	return noticeConfig.Type != ""
}
