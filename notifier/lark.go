package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-lark/lark"
	"github.com/go-lark/lark/card"
	"github.com/sirupsen/logrus"
)

// criticalScore switches the card header from orange to red.
const criticalScore = 80

type larkNotifier struct {
	post func(msg lark.OutcomingMessage) error
}

// LarkCard is an interactive card made of rows of weighted fields and link
// buttons at the bottom.
type LarkCard struct {
	Title    string
	Critical bool
	Rows     []LarkRow
	Links    []LarkLink
}

// LarkRow is a column set; a Divider row renders as a horizontal rule.
type LarkRow struct {
	Divider bool
	Fields  []LarkField
}

type LarkField struct {
	Label  string
	Value  string
	Weight int
}

type LarkLink struct {
	Text string
	URL  string
}

func NewLarkNotifier(webHookURL string) Notifier {
	bot := lark.NewNotificationBot(webHookURL)
	return &larkNotifier{post: func(msg lark.OutcomingMessage) error {
		_, err := bot.PostNotificationV2(msg)
		return err
	}}
}

func (ln *larkNotifier) Name() string {
	return LarkNotifierName
}

func (ln *larkNotifier) Notify(data any) {
	msg, ok := ln.GetOutComingMsg(data)
	if !ok {
		logrus.Warnf("lark notifier got unsupported data %T", data)
		return
	}
	if err := ln.post(msg); err != nil {
		logrus.Errorf("send message to lark is err: %v", err)
	}
}

func (ln *larkNotifier) GetOutComingMsg(data any) (lark.OutcomingMessage, bool) {
	var larkCard LarkCard
	switch d := data.(type) {
	case Alert:
		larkCard = AlertCard(d)
	case LarkCard:
		larkCard = d
	default:
		return lark.OutcomingMessage{}, false
	}
	return lark.NewMsgBuffer(lark.MsgInteractive).Card(ln.ComposeCard(larkCard).String()).Build(), true
}

// AlertCard shows the token, the verdict and the job, with a report button
// when the alert carries a link.
func AlertCard(alert Alert) LarkCard {
	chain := strings.ToUpper(alert.Chain.String())
	larkCard := LarkCard{
		Title:    fmt.Sprintf("High risk token %s on %s, composite %.0f", alert.Symbol, chain, alert.CompositeScore),
		Critical: alert.CompositeScore >= criticalScore,
		Rows: []LarkRow{
			{Fields: []LarkField{
				{Label: "Token", Value: fmt.Sprintf("%s (%s)", alert.Name, alert.Symbol), Weight: 1},
				{Label: "Identifier", Value: alert.Identifier, Weight: 2},
			}},
			{Divider: true},
			{Fields: []LarkField{
				{Label: "Composite", Value: fmt.Sprintf("%.0f", alert.CompositeScore), Weight: 1},
				{Label: "Verdict", Value: alert.Summary, Weight: 2},
			}},
			{Fields: []LarkField{
				{Label: "Analysis", Value: alert.AnalysisID, Weight: 1},
				{Label: "DateTime", Value: time.UnixMilli(alert.Timestamp).UTC().Format(time.DateTime) + " UTC", Weight: 2},
			}},
		},
	}
	if alert.ReportURL != "" {
		larkCard.Links = []LarkLink{{Text: "View Report", URL: alert.ReportURL}}
	}
	return larkCard
}

func (ln *larkNotifier) ComposeCard(data LarkCard) *card.Block {
	builder := lark.NewCardBuilder()
	elements := make([]card.Element, 0, len(data.Rows)+len(data.Links)+1)
	for _, row := range data.Rows {
		if row.Divider {
			elements = append(elements, builder.Hr())
			continue
		}
		elements = append(elements, composeRow(builder, row.Fields))
	}
	if len(data.Links) > 0 {
		elements = append(elements, builder.Hr())
		buttons := make([]card.Element, 0, len(data.Links))
		for _, link := range data.Links {
			buttons = append(buttons, builder.Button(card.Text(link.Text)).Primary().URL(link.URL))
		}
		elements = append(elements, builder.Action(buttons...))
	}

	block := builder.Card(elements...).Title(data.Title)
	if data.Critical {
		return block.Red()
	}
	return block.Orange()
}

func composeRow(builder *lark.CardBuilder, fields []LarkField) *card.ColumnSetBlock {
	columns := make([]*card.ColumnBlock, 0, len(fields))
	for _, field := range fields {
		text := builder.Text(fmt.Sprintf("**%s:**\n%s", field.Label, field.Value)).LarkMd()
		columns = append(columns, builder.Column(builder.Div().Text(text)).
			VerticalAlign("top").
			Width("weighted").
			Weight(field.Weight))
	}
	return builder.ColumnSet(columns...).
		FlexMode("bisect").
		HorizontalSpacing("default")
}
