package nodes

import (
	"context"
	"fmt"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/notifier"
	"github.com/flowforge/engine/internal/registry"
)

// NotifyActionType sends a message through a pluggable notifier.Client.
// Adapted from the teacher's node_email.go and node_sms.go merged into
// one generic node, parameterized by a "channel" field instead of being
// two separate node kinds.
const NotifyActionType = "Notify"

func newNotifyDefine() *define {
	return &define{
		actionType: NotifyActionType,
		name:       registry.Text{EN: "Notify", ZH: "发送通知"},
		icon:       "bell",
		category:   registry.Text{EN: "Messaging", ZH: "消息"},
		description: registry.Text{
			EN: "Sends a message via a pluggable channel (email, SMS).",
			ZH: "通过可插拔渠道（邮件、短信）发送消息。",
		},
		inputs: []registry.SchemaField{
			{Name: "channel", Type: registry.FieldString, Default: "email", Enums: []string{"email", "sms"}},
			{Name: "to", Type: registry.FieldString},
			{Name: "subject", Type: registry.FieldString, Default: ""},
			{Name: "body", Type: registry.FieldString, Default: ""},
		},
		outputsFn: staticOutputs(
			registry.SchemaField{Name: "sent", Type: registry.FieldBoolean},
		),
	}
}

type notifyRunner struct{}

func newNotifyRunner() registry.Runner { return notifyRunner{} }

func (notifyRunner) Run(ctx context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	channel, _ := params["channel"].(string)
	client, ok := notifier.ByChannel(channel)
	if !ok {
		return nil, fmt.Errorf("nodes: Notify: unknown channel %q", channel)
	}

	to, _ := params["to"].(string)
	subject, _ := params["subject"].(string)
	body, _ := params["body"].(string)

	if err := client.Send(ctx, notifier.Message{To: to, Subject: subject, Body: body}); err != nil {
		return nil, fmt.Errorf("nodes: Notify: %w", err)
	}
	return map[string]any{"sent": true}, nil
}
