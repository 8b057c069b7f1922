package notifier

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/exvulsec/rugscope/config"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const (
	LarkNotifierName  = "LarkNotifier"
	SlackNotifierName = "SlackNotifier"
)

type Notifier interface {
	Name() string
	Notify(data any)
}

// Alert is what the notifiers receive when an analysis crosses the alert
// threshold.
type Alert struct {
	AnalysisID     string
	Symbol         string
	Name           string
	Chain          utils.Chain
	Identifier     string
	CompositeScore float64
	Summary        string
	Timestamp      int64
	ReportURL      string
}

func NewAlert(result *model.AnalysisResult, reportURL string) Alert {
	alert := Alert{
		AnalysisID:     result.ID,
		Symbol:         result.Metadata.Symbol,
		Name:           result.Metadata.Name,
		Chain:          result.Chain,
		Identifier:     result.Identifier,
		CompositeScore: result.Risk.CompositeRugLikelihood.Score,
		Summary:        result.Verdict.Summary,
		Timestamp:      result.Timestamp,
	}
	alert.ReportURL = composeReportURL(reportURL, result.ID)
	return alert
}

// composeReportURL fills a %s placeholder with the analysis id, or appends
// the id as the last path segment when the template has none.
func composeReportURL(template, id string) string {
	if template == "" {
		return ""
	}
	if strings.Count(template, "%s") == 1 {
		return fmt.Sprintf(template, id)
	}
	reportURL, err := url.JoinPath(template, id)
	if err != nil {
		logrus.Warnf("compose report url from %s is err: %v", template, err)
		return ""
	}
	return reportURL
}

// NewNotifiers builds one notifier per configured webhook.
func NewNotifiers(conf config.NotifierConfig) []Notifier {
	notifiers := []Notifier{}
	if conf.LarkWebhook != "" {
		notifiers = append(notifiers, NewLarkNotifier(conf.LarkWebhook))
	}
	if conf.SlackWebhook != "" {
		notifiers = append(notifiers, NewSlackNotifier(conf.SlackWebhook))
	}
	return notifiers
}
