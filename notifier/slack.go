package notifier

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

type slackNotifier struct {
	webhook string
	post    func(url string, msg *slack.WebhookMessage) error
}

func NewSlackNotifier(webhook string) Notifier {
	return &slackNotifier{webhook: webhook, post: slack.PostWebhook}
}

func (sn *slackNotifier) Name() string {
	return SlackNotifierName
}

func (sn *slackNotifier) Notify(data any) {
	alert, ok := data.(Alert)
	if !ok {
		logrus.Warnf("slack notifier got unsupported data %T", data)
		return
	}
	msg := slack.WebhookMessage{
		Attachments: []slack.Attachment{sn.ComposeAttachment(alert)},
	}
	if err := sn.post(sn.webhook, &msg); err != nil {
		logrus.Errorf("send analysis %s message to slack is err: %v", alert.AnalysisID, err)
	}
}

func (sn *slackNotifier) ComposeMessage(alert Alert) string {
	text := fmt.Sprintf("*Chain:* `%s`\n", strings.ToUpper(alert.Chain.String()))
	text += fmt.Sprintf("*Token:* `%s (%s)`\n", alert.Name, alert.Symbol)
	text += fmt.Sprintf("*Identifier:* `%s`\n", alert.Identifier)
	text += fmt.Sprintf("*Composite:* `%.0f`\n", alert.CompositeScore)
	text += fmt.Sprintf("*Verdict:* `%s`\n", alert.Summary)
	text += fmt.Sprintf("*Analysis:* `%s`\n", alert.AnalysisID)
	text += fmt.Sprintf("*DateTime:* `%s UTC`\n", time.UnixMilli(alert.Timestamp).UTC().Format(time.DateTime))
	return text
}

func (sn *slackNotifier) ComposeAttachment(alert Alert) slack.Attachment {
	summary := fmt.Sprintf("⚠️Detected a high risk token %s on %s, composite %.0f ⚠️\n", alert.Symbol, strings.ToUpper(alert.Chain.String()), alert.CompositeScore)
	attachment := slack.Attachment{
		Color:      "danger",
		AuthorName: "rugscope",
		Fallback:   summary,
		Text:       summary + sn.ComposeMessage(alert),
		Footer:     fmt.Sprintf("rugscope-on-%s", alert.Chain),
		Ts:         json.Number(strconv.FormatInt(time.Now().Unix(), 10)),
	}
	if alert.ReportURL != "" {
		attachment.Actions = []slack.AttachmentAction{
			{
				Name: "report",
				Text: "View Report",
				Type: "button",
				URL:  alert.ReportURL,
			},
		}
	}
	return attachment
}
