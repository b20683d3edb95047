package transcript_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/service/transcript"
)

const sampleCorpus = `========== Conversation ==========
[2025-03-01 09:15:00] AI: Good morning, how are you feeling today?
[2025-03-01 09:16:12] User: Not great, I have had a fever since Monday
[2025-03-01 09:17:03] AI: I'm sorry to hear that. Any other symptoms?

========== Conversation ==========
[2025-03-02 14:00:00] User: I cant sleep and I keep worrying
[2025-03-02 14:01:30] AI: Thank you for sharing that with me
`

func TestSource_Parse(t *testing.T) {
	convs := transcript.New().Parse(context.Background(), sampleCorpus)
	gt.Array(t, convs).Length(2).Required()

	gt.Value(t, convs[0].ID).Equal(types.ConversationID("conv-0001"))
	gt.Array(t, convs[0].Messages).Length(3).Required()
	gt.Value(t, convs[0].Messages[0].Speaker).Equal(types.SpeakerWorker)
	gt.Value(t, convs[0].Messages[1].Speaker).Equal(types.SpeakerPatient)
	gt.String(t, convs[0].Messages[1].Text).Equal("Not great, I have had a fever since Monday")
	gt.Bool(t, convs[0].Messages[0].Timestamp.IsZero()).False()

	gt.Value(t, convs[1].ID).Equal(types.ConversationID("conv-0002"))
	gt.Array(t, convs[1].Messages).Length(2)
}

func TestSource_Parse_SkipsBadLines(t *testing.T) {
	raw := `========== Conversation ==========
[2025-03-01 09:15:00] AI: Hello
this line has no transcript format
[garbage timestamp User missing colon
[2025-03-01 09:16:00] User: I am here
`
	convs := transcript.New().Parse(context.Background(), raw)
	gt.Array(t, convs).Length(1).Required()
	gt.Array(t, convs[0].Messages).Length(2)
}

func TestSource_Parse_UnparseableTimestampKept(t *testing.T) {
	raw := `========== Conversation ==========
[yesterday morning] User: I felt dizzy
`
	convs := transcript.New().Parse(context.Background(), raw)
	gt.Array(t, convs).Length(1).Required()
	gt.Array(t, convs[0].Messages).Length(1).Required()
	gt.Bool(t, convs[0].Messages[0].Timestamp.IsZero()).True()
	gt.String(t, convs[0].Messages[0].Text).Equal("I felt dizzy")
}

func TestSource_Parse_EmptyBlocksDropped(t *testing.T) {
	raw := `========== Conversation ==========

========== Conversation ==========
[2025-03-01 09:15:00] User: hello
========== Conversation ==========
nothing parseable in here
`
	convs := transcript.New().Parse(context.Background(), raw)
	gt.Array(t, convs).Length(1)
}

func TestSource_Parse_Empty(t *testing.T) {
	gt.Array(t, transcript.New().Parse(context.Background(), "")).Length(0)
}

func TestSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	gt.NoError(t, os.WriteFile(path, []byte(sampleCorpus), 0o600)).Required()

	convs, err := transcript.New().Load(context.Background(), path)
	gt.NoError(t, err).Required()
	gt.Array(t, convs).Length(2)
}

func TestSource_Load_MissingFile(t *testing.T) {
	_, err := transcript.New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagDataLoad)).True()
}
