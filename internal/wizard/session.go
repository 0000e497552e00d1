package wizard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/autofinder/internal/entity"
)

type Step int

const (
	StepProfile Step = iota + 1
	StepStack
	StepPainPoints
)

func (s Step) String() string {
	switch s {
	case StepProfile:
		return "profile"
	case StepStack:
		return "stack"
	case StepPainPoints:
		return "pain_points"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

type Phase string

const (
	PhaseEditing   Phase = "editing"
	PhaseAnalyzing Phase = "analyzing"
	PhaseCompleted Phase = "completed"
	PhaseCancelled Phase = "cancelled"
)

var (
	ErrWrongStep        = errors.New("action not allowed on current step")
	ErrNotEditing       = errors.New("wizard is not accepting changes")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrNoRecorder       = errors.New("no recorder configured")
)

// ValidationError bloqueia o avanço de etapa; só a primeira falha é exibida.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

type Profile struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Industry    string `json:"industry"`
}

// ValidateProfile devolve a primeira regra violada, na ordem da tela.
func ValidateProfile(p Profile) *ValidationError {
	switch {
	case strings.TrimSpace(p.CompanyName) == "":
		return &ValidationError{"companyName", "company name is required"}
	case strings.TrimSpace(p.ContactName) == "":
		return &ValidationError{"contactName", "contact name is required"}
	case !strings.Contains(p.Email, "@"):
		return &ValidationError{"email", "a valid email is required"}
	case strings.TrimSpace(p.Industry) == "":
		return &ValidationError{"industry", "industry is required"}
	}
	return nil
}

// Session é uma execução do wizard Profile -> Stack -> PainPoints/Audio.
type Session struct {
	ID string

	mu         sync.Mutex
	step       Step
	phase      Phase
	profile    Profile
	tools      []string
	painPoints []string
	audio      string
	lastError  *ValidationError
	recorder   Recorder
	recording  Recording
	touchedAt  time.Time
}

func NewSession(recorder Recorder) *Session {
	return &Session{
		ID:        uuid.New().String(),
		step:      StepProfile,
		phase:     PhaseEditing,
		recorder:  recorder,
		touchedAt: time.Now(),
	}
}

// View é o snapshot serializável da sessão.
type View struct {
	ID         string           `json:"id"`
	Step       int              `json:"step"`
	StepName   string           `json:"stepName"`
	Phase      Phase            `json:"phase"`
	Profile    Profile          `json:"profile"`
	Tools      []string         `json:"tools"`
	PainPoints []string         `json:"painPoints"`
	HasAudio   bool             `json:"hasAudio"`
	Recording  bool             `json:"recording"`
	Error      *ValidationError `json:"error,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:         s.ID,
		Step:       int(s.step),
		StepName:   s.step.String(),
		Phase:      s.phase,
		Profile:    s.profile,
		Tools:      append([]string{}, s.tools...),
		PainPoints: append([]string{}, s.painPoints...),
		HasAudio:   s.audio != "",
		Recording:  s.recording != nil,
		Error:      s.lastError,
	}
}

func (s *Session) touch() { s.touchedAt = time.Now() }

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

func (s *Session) editable(step Step) error {
	if s.phase != PhaseEditing {
		return ErrNotEditing
	}
	if s.step != step {
		return fmt.Errorf("%w: on %s", ErrWrongStep, s.step)
	}
	return nil
}

func (s *Session) SetProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(StepProfile); err != nil {
		return err
	}
	s.profile = Profile{
		CompanyName: strings.TrimSpace(p.CompanyName),
		ContactName: strings.TrimSpace(p.ContactName),
		Email:       strings.TrimSpace(p.Email),
		Industry:    strings.TrimSpace(p.Industry),
	}
	s.touch()
	return nil
}

// Next avança uma etapa. Em Profile, aplica a validação e guarda o erro exibido.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrNotEditing
	}
	s.touch()
	switch s.step {
	case StepProfile:
		if verr := ValidateProfile(s.profile); verr != nil {
			s.lastError = verr
			return verr
		}
		s.lastError = nil
		s.step = StepStack
	case StepStack:
		s.step = StepPainPoints
	default:
		return fmt.Errorf("%w: last step finishes the wizard", ErrWrongStep)
	}
	return nil
}

// Back volta uma etapa e limpa o erro exibido.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEditing {
		return ErrNotEditing
	}
	if s.step <= StepProfile {
		return fmt.Errorf("%w: already on first step", ErrWrongStep)
	}
	s.stopRecordingLocked(false)
	s.step--
	s.lastError = nil
	s.touch()
	return nil
}

// Cancel só existe na primeira etapa e não gera nenhum efeito persistido.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(StepProfile); err != nil {
		return err
	}
	s.phase = PhaseCancelled
	s.touch()
	return nil
}

func (s *Session) ToggleTool(tool string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(StepStack); err != nil {
		return err
	}
	s.tools = toggle(s.tools, strings.TrimSpace(tool))
	s.touch()
	return nil
}

// AddCustomTool adiciona uma tag livre, ignorando duplicadas (sem diferenciar caixa).
func (s *Session) AddCustomTool(tool string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(StepStack); err != nil {
		return err
	}
	tool = strings.TrimSpace(tool)
	if tool == "" || indexFold(s.tools, tool) >= 0 {
		return nil
	}
	s.tools = append(s.tools, tool)
	s.touch()
	return nil
}

func (s *Session) TogglePainPoint(point string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(StepPainPoints); err != nil {
		return err
	}
	s.painPoints = toggle(s.painPoints, strings.TrimSpace(point))
	s.touch()
	return nil
}

// StartRecording: idle -> recording.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(StepPainPoints); err != nil {
		return err
	}
	if s.recorder == nil {
		return ErrNoRecorder
	}
	if s.recording != nil {
		return ErrAlreadyRecording
	}
	rec, err := s.recorder.Start(ctx)
	if err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	s.recording = rec
	s.touch()
	return nil
}

// AppendAudio alimenta gravações baseadas em upload.
func (s *Session) AppendAudio(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording == nil {
		return ErrNotRecording
	}
	w, ok := s.recording.(io.Writer)
	if !ok {
		return fmt.Errorf("recording does not accept uploaded audio")
	}
	s.touch()
	if _, err := w.Write(p); err != nil {
		return err
	}
	return nil
}

// StopRecording: recording -> idle. Finaliza o clipe em base64 e libera o recurso
// em qualquer caminho de saída.
func (s *Session) StopRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording == nil {
		return ErrNotRecording
	}
	s.touch()
	return s.stopRecordingLocked(true)
}

func (s *Session) stopRecordingLocked(keep bool) error {
	rec := s.recording
	if rec == nil {
		return nil
	}
	s.recording = nil
	defer rec.Release()

	if !keep {
		return nil
	}
	clip, err := rec.Stop()
	if err != nil {
		return fmt.Errorf("stop recording: %w", err)
	}
	if len(clip.Data) == 0 {
		return nil
	}
	s.audio = EncodeClip(clip)
	return nil
}

// EncodeClip gera o payload "data:<mime>;base64,<dados>".
func EncodeClip(c Clip) string {
	mime := c.MIMEType
	if mime == "" {
		mime = "audio/webm"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(c.Data)
}

// Input monta o DiagnosticInput com o que foi coletado até agora.
func (s *Session) Input() entity.DiagnosticInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputLocked()
}

func (s *Session) inputLocked() entity.DiagnosticInput {
	return entity.DiagnosticInput{
		CompanyName: s.profile.CompanyName,
		ContactName: s.profile.ContactName,
		Email:       s.profile.Email,
		Industry:    s.profile.Industry,
		Tools:       append([]string{}, s.tools...),
		PainPoints:  append([]string{}, s.painPoints...),
		AudioBase64: s.audio,
	}
}

// Finish leva a sessão para Analyzing e chama analyze sem segurar o lock.
// Sucesso -> Completed. Falha -> volta para a etapa 3 com os dados intactos.
func (s *Session) Finish(ctx context.Context, analyze func(context.Context, entity.DiagnosticInput) error) error {
	s.mu.Lock()
	if err := s.editable(StepPainPoints); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.stopRecordingLocked(true); err != nil {
		s.mu.Unlock()
		return err
	}
	s.phase = PhaseAnalyzing
	input := s.inputLocked()
	s.touch()
	s.mu.Unlock()

	err := analyze(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err != nil {
		s.phase = PhaseEditing
		s.step = StepPainPoints
		return err
	}
	s.phase = PhaseCompleted
	return nil
}

// Close libera a gravação pendente (sessão expirada ou abandonada).
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRecordingLocked(false)
}

func toggle(list []string, v string) []string {
	if v == "" {
		return list
	}
	for i, item := range list {
		if item == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, v)
}

func indexFold(list []string, v string) int {
	for i, item := range list {
		if strings.EqualFold(item, v) {
			return i
		}
	}
	return -1
}
