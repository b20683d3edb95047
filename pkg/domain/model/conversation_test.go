package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

func TestMessage_IsMalformed(t *testing.T) {
	tests := []struct {
		name string
		msg  model.Message
		want bool
	}{
		{
			name: "well formed",
			msg:  model.Message{Speaker: types.SpeakerPatient, Text: "I have a fever"},
			want: false,
		},
		{
			name: "missing speaker",
			msg:  model.Message{Text: "I have a fever"},
			want: true,
		},
		{
			name: "empty text",
			msg:  model.Message{Speaker: types.SpeakerPatient, Text: ""},
			want: true,
		},
		{
			name: "whitespace only text",
			msg:  model.Message{Speaker: types.SpeakerWorker, Text: "   \t"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.Bool(t, tt.msg.IsMalformed()).True()
			} else {
				gt.Bool(t, tt.msg.IsMalformed()).False()
			}
		})
	}
}

func TestConversation_LastMessageIndex(t *testing.T) {
	empty := &model.Conversation{ID: "conv-0001"}
	gt.Number(t, empty.LastMessageIndex()).Equal(-1)

	conv := &model.Conversation{
		ID: "conv-0002",
		Messages: []model.Message{
			{Speaker: types.SpeakerWorker, Timestamp: time.Now(), Text: "Hello"},
			{Speaker: types.SpeakerPatient, Timestamp: time.Now(), Text: "Hi"},
		},
	}
	gt.Number(t, conv.LastMessageIndex()).Equal(1)
}
