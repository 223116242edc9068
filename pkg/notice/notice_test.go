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


package notice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/auto-release/pkg/config"
)

func TestNewNotifier(t *testing.T) {
	n, err := NewNotifier(config.NoticeConfig{})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.False(t, IsNotificationEnabled(config.NoticeConfig{}))

	_, err = NewNotifier(config.NoticeConfig{Type: "wecom"})
	assert.ErrorContains(t, err, "webhook_url is required")

	n, err = NewNotifier(config.NoticeConfig{Type: "wecom", Params: map[string]interface{}{"webhook_url": "http://example.com"}})
	require.NoError(t, err)
	assert.IsType(t, &WeComNotifier{}, n)

	_, err = NewNotifier(config.NoticeConfig{Type: "slack"})
	assert.ErrorContains(t, err, "unsupported notification type")
}

func TestWeComNotifier_Notify(t *testing.T) {
	var card WeComMessageCard
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&card))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	info := ReleaseInfo{
		Repository:      "owner/extension",
		PreviousVersion: "1.2.3",
		Version:         "1.3.0",
		Bump:            "minor",
		Tag:             "v1.3.0",
		ChangelogEntry:  "## [1.3.0] - 2025-01-15\n\n### Added\n- status bar item",
		ReleaseURL:      "https://github.com/owner/extension/releases/tag/v1.3.0",
	}
	require.NoError(t, NewWeComNotifier(server.URL).Notify(context.Background(), info))

	assert.Equal(t, "markdown", card.MsgType)
	assert.Contains(t, card.Markdown.Content, "owner/extension")
	assert.Contains(t, card.Markdown.Content, "1.2.3 → 1.3.0（minor）")
	assert.Contains(t, card.Markdown.Content, "### Added\n- status bar item")
	assert.Contains(t, card.Markdown.Content, info.ReleaseURL)
}

func TestWeComNotifier_NotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewWeComNotifier(server.URL).Notify(context.Background(), ReleaseInfo{Version: "1.0.0"})
	assert.ErrorContains(t, err, "status: 502")
}

func TestBuildMessage_Truncates(t *testing.T) {
	entry := strings.Repeat("- 修复问题\n", 1000)
	msg := buildMessage(ReleaseInfo{Version: "2.0.0", Tag: "v2.0.0", ChangelogEntry: entry})

	assert.LessOrEqual(t, len(msg), maxContentBytes)
	assert.True(t, utf8.ValidString(msg))
	assert.Contains(t, msg, "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "", truncate("abcdefghij", 2))
}
