package wizard

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/autofinder/internal/entity"
)

type fakeRecording struct {
	clip     Clip
	stopErr  error
	released int
}

func (f *fakeRecording) Stop() (Clip, error) { return f.clip, f.stopErr }
func (f *fakeRecording) Release() error {
	f.released++
	return nil
}

type fakeRecorder struct {
	last *fakeRecording
	clip Clip
	err  error
}

func (f *fakeRecorder) Start(ctx context.Context) (Recording, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = &fakeRecording{clip: f.clip}
	return f.last, nil
}

func validProfile() Profile {
	return Profile{CompanyName: "Acme", ContactName: "Ana", Email: "ana@acme.io", Industry: "SaaS"}
}

func toPainPoints(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetProfile(validProfile()))
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
}

func TestProfileValidationReportsFirstFailure(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		field   string
	}{
		{"all empty", Profile{}, "companyName"},
		{"no contact", Profile{CompanyName: "Acme"}, "contactName"},
		{"email without at", Profile{CompanyName: "Acme", ContactName: "Ana", Email: "ana.acme.io", Industry: "SaaS"}, "email"},
		{"no industry", Profile{CompanyName: "Acme", ContactName: "Ana", Email: "ana@acme.io"}, "industry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(nil)
			require.NoError(t, s.SetProfile(tc.profile))

			err := s.Next()

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, int(StepProfile), s.View().Step)
			assert.Equal(t, tc.field, s.View().Error.Field)
		})
	}
}

func TestBackClearsErrorAndCancelOnlyOnFirstStep(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.SetProfile(validProfile()))
	require.NoError(t, s.Next())

	assert.ErrorIs(t, s.Cancel(), ErrWrongStep)
	require.NoError(t, s.Back())
	assert.Nil(t, s.View().Error)
	assert.ErrorIs(t, s.Back(), ErrWrongStep)

	require.NoError(t, s.Cancel())
	assert.Equal(t, PhaseCancelled, s.View().Phase)
	assert.ErrorIs(t, s.Next(), ErrNotEditing)
}

func TestStackToolsAreDeduplicated(t *testing.T) {
	s := NewSession(nil)
	require.NoError(t, s.SetProfile(validProfile()))
	require.NoError(t, s.Next())

	require.NoError(t, s.ToggleTool("HubSpot"))
	require.NoError(t, s.AddCustomTool("hubspot"))
	require.NoError(t, s.AddCustomTool("  Odoo "))
	require.NoError(t, s.AddCustomTool("odoo"))
	require.NoError(t, s.AddCustomTool(""))
	require.NoError(t, s.ToggleTool("Slack"))
	require.NoError(t, s.ToggleTool("Slack"))

	assert.Equal(t, []string{"HubSpot", "Odoo"}, s.View().Tools)
	assert.ErrorIs(t, s.TogglePainPoint("Invoicing Delays"), ErrWrongStep)
}

func TestRecordingIsReleasedOnStop(t *testing.T) {
	rec := &fakeRecorder{clip: Clip{Data: []byte("voice"), MIMEType: "audio/ogg"}}
	s := NewSession(rec)
	toPainPoints(t, s)

	require.NoError(t, s.StartRecording(context.Background()))
	assert.ErrorIs(t, s.StartRecording(context.Background()), ErrAlreadyRecording)
	assert.True(t, s.View().Recording)

	require.NoError(t, s.StopRecording())

	assert.Equal(t, 1, rec.last.released)
	assert.False(t, s.View().Recording)
	in := s.Input()
	assert.True(t, strings.HasPrefix(in.AudioBase64, "data:audio/ogg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(in.AudioBase64, "data:audio/ogg;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "voice", string(raw))
	assert.ErrorIs(t, s.StopRecording(), ErrNotRecording)
}

func TestRecordingIsReleasedWhenStopFails(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewSession(rec)
	toPainPoints(t, s)
	require.NoError(t, s.StartRecording(context.Background()))
	rec.last.stopErr = errors.New("device lost")

	assert.Error(t, s.StopRecording())
	assert.Equal(t, 1, rec.last.released)
	assert.False(t, s.View().Recording)
}

func TestCloseReleasesPendingRecording(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewSession(rec)
	toPainPoints(t, s)
	require.NoError(t, s.StartRecording(context.Background()))

	s.Close()

	assert.Equal(t, 1, rec.last.released)
}

func TestFinishFailureReturnsToLastStepKeepingInput(t *testing.T) {
	s := NewSession(nil)
	toPainPoints(t, s)
	require.NoError(t, s.TogglePainPoint("Invoicing Delays"))

	var seen entity.DiagnosticInput
	err := s.Finish(context.Background(), func(ctx context.Context, in entity.DiagnosticInput) error {
		seen = in
		return errors.New("model unavailable")
	})

	require.Error(t, err)
	assert.Equal(t, "Acme", seen.CompanyName)
	v := s.View()
	assert.Equal(t, PhaseEditing, v.Phase)
	assert.Equal(t, int(StepPainPoints), v.Step)
	assert.Equal(t, []string{"Invoicing Delays"}, v.PainPoints)

	require.NoError(t, s.Finish(context.Background(), func(context.Context, entity.DiagnosticInput) error { return nil }))
	assert.Equal(t, PhaseCompleted, s.View().Phase)
}

func TestFinishStopsActiveRecording(t *testing.T) {
	rec := &fakeRecorder{clip: Clip{Data: []byte("a"), MIMEType: "audio/webm"}}
	s := NewSession(rec)
	toPainPoints(t, s)
	require.NoError(t, s.StartRecording(context.Background()))

	var in entity.DiagnosticInput
	require.NoError(t, s.Finish(context.Background(), func(_ context.Context, got entity.DiagnosticInput) error {
		in = got
		return nil
	}))

	assert.Equal(t, 1, rec.last.released)
	assert.NotEmpty(t, in.AudioBase64)
}

func TestBufferRecorderLimitsSize(t *testing.T) {
	s := NewSession(NewBufferRecorder(4, ""))
	toPainPoints(t, s)
	require.NoError(t, s.StartRecording(context.Background()))

	require.NoError(t, s.AppendAudio([]byte("ab")))
	assert.ErrorIs(t, s.AppendAudio([]byte("cde")), ErrClipTooLarge)
	require.NoError(t, s.StopRecording())

	assert.Equal(t, "data:audio/webm;base64,"+base64.StdEncoding.EncodeToString([]byte("ab")), s.Input().AudioBase64)
}

func TestStoreSweepClosesIdleSessions(t *testing.T) {
	rec := &fakeRecorder{}
	st := NewStore(time.Minute, func() Recorder { return rec }, zap.NewNop())
	s := st.New()
	toPainPoints(t, s)
	require.NoError(t, s.StartRecording(context.Background()))

	assert.Equal(t, 0, st.Sweep(time.Now()))
	assert.Equal(t, 1, st.Sweep(time.Now().Add(2*time.Minute)))

	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, rec.last.released)
}
