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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// maxContentBytes is the WeChat Work markdown content limit
const maxContentBytes = 4096

// WeComNotifier implements Notifier interface for WeChat Work (Enterprise WeChat)
type WeComNotifier struct {
	// webhookURL is the WeChat Work webhook URL
	webhookURL string
	// httpClient is the HTTP client for making requests
	httpClient *http.Client
}

// WeComMessageCard represents a WeChat Work message card
type WeComMessageCard struct {
	MsgType  string        `json:"msgtype"`
	Markdown WeComMarkdown `json:"markdown"`
}

// WeComMarkdown represents the markdown content for WeChat Work
type WeComMarkdown struct {
	Content string `json:"content"`
}

// NewWeComNotifier creates a new WeChat Work notifier
func NewWeComNotifier(webhookURL string) *WeComNotifier {
	return &WeComNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Notify sends a notification to WeChat Work
func (w *WeComNotifier) Notify(ctx context.Context, info ReleaseInfo) error {
	logrus.Debugf("Sending WeChat Work notification for release: %s", info.Version)

	messageCard := WeComMessageCard{
		MsgType: "markdown",
		Markdown: WeComMarkdown{
			Content: buildMessage(info),
		},
	}

	jsonData, err := json.Marshal(messageCard)
	if err != nil {
		return fmt.Errorf("failed to marshal WeChat Work message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send WeChat Work notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("WeChat Work notification failed with status: %d", resp.StatusCode)
	}

	logrus.Infof("WeChat Work notification sent successfully for release: %s", info.Version)
	return nil
}

// buildMessage builds the markdown message for WeChat Work
func buildMessage(info ReleaseInfo) string {
	var msg bytes.Buffer

	title := info.Repository
	if title == "" {
		title = info.Tag
	}
	msg.WriteString(fmt.Sprintf("# 🚀 %s 版本发布通知\n\n", title))

	msg.WriteString("**📦 版本信息：**\n")
	msg.WriteString(fmt.Sprintf(" - 版本：%s → %s（%s）\n", info.PreviousVersion, info.Version, info.Bump))
	msg.WriteString(fmt.Sprintf(" - 标签：%s\n", info.Tag))
	if info.ReleaseURL != "" {
		msg.WriteString(fmt.Sprintf(" - 链接：[%s](%s)\n", info.ReleaseURL, info.ReleaseURL))
	}
	msg.WriteString("\n")

	if info.ChangelogEntry != "" {
		msg.WriteString("**📝 更新日志：**\n")
		remaining := maxContentBytes - msg.Len() - 1
		msg.WriteString(truncate(info.ChangelogEntry, remaining))
		msg.WriteString("\n")
	}
	return msg.String()
}

// truncate cuts s to at most n bytes on a rune boundary, marking the cut with "..."
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	const ellipsis = "..."
	if n <= len(ellipsis) {
		return ""
	}
	cut := n - len(ellipsis)
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
