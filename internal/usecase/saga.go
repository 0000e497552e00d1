package usecase

import (
	"context"
	"fmt"
)

type SagaState string

const (
	SagaIdle              SagaState = "idle"
	SagaSending           SagaState = "sending"
	SagaRecorded          SagaState = "recorded"
	SagaFailedNotRecorded SagaState = "failed_not_recorded"
	SagaSentNotRecorded   SagaState = "sent_not_recorded" // entregue, mas sem auditoria
)

// Saga executa passos em ordem e registra em que estado parou.
// Um passo que falha leva ao seu estado de falha; nada é desfeito.
type Saga struct {
	state SagaState
	done  SagaState
	steps []SagaStep
}

type SagaStep struct {
	Name      string
	Running   SagaState
	OnFailure SagaState
	Fn        func(context.Context) error
}

func NewSaga(done SagaState) *Saga {
	return &Saga{state: SagaIdle, done: done}
}

func (s *Saga) AddStep(name string, running, onFailure SagaState, fn func(context.Context) error) {
	s.steps = append(s.steps, SagaStep{Name: name, Running: running, OnFailure: onFailure, Fn: fn})
}

func (s *Saga) State() SagaState { return s.state }

func (s *Saga) Execute(ctx context.Context) error {
	for _, step := range s.steps {
		s.state = step.Running
		if err := step.Fn(ctx); err != nil {
			s.state = step.OnFailure
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
	}
	s.state = s.done
	return nil
}
