package entity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ClientStatus string

const (
	ClientStatusLead           ClientStatus = "lead"
	ClientStatusActiveProposal ClientStatus = "active_proposal"
	ClientStatusConverted      ClientStatus = "converted"
	ClientStatusLost           ClientStatus = "lost"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusLead, ClientStatusActiveProposal, ClientStatusConverted, ClientStatusLost:
		return true
	}
	return false
}

func ParseClientStatus(raw string) (ClientStatus, error) {
	s := ClientStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Entidade: Client (contato comercial do consultor)
type Client struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	CompanyName string       `json:"companyName"`
	Industry    string       `json:"industry"`
	Status      ClientStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Identidade informada no wizard, usada no lookup-or-create
type ClientIdentity struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
}

// NewLeadClient cria um cliente novo sempre com status lead.
// Sem nome de contato, usa o nome da empresa.
func NewLeadClient(id ClientIdentity) *Client {
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = strings.TrimSpace(id.CompanyName)
	}
	return &Client{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       strings.TrimSpace(id.Email),
		CompanyName: strings.TrimSpace(id.CompanyName),
		Industry:    strings.TrimSpace(id.Industry),
		Status:      ClientStatusLead,
		CreatedAt:   time.Now().UTC(),
	}
}

// Campos editáveis manualmente no gerenciador de clientes. nil = não altera.
type ClientUpdate struct {
	Name        *string       `json:"name,omitempty"`
	Email       *string       `json:"email,omitempty"`
	CompanyName *string       `json:"companyName,omitempty"`
	Industry    *string       `json:"industry,omitempty"`
	Status      *ClientStatus `json:"status,omitempty"`
}

func (u ClientUpdate) Apply(c *Client) error {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		c.Email = strings.TrimSpace(*u.Email)
	}
	if u.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*u.CompanyName)
	}
	if u.Industry != nil {
		c.Industry = strings.TrimSpace(*u.Industry)
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, *u.Status)
		}
		c.Status = *u.Status
	}
	return nil
}

type ClientRepositoryInterface interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	FindByCompanyName(ctx context.Context, companyName string) (*Client, error)
	ListByName(ctx context.Context) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	UpdateStatusIf(ctx context.Context, id string, from, to ClientStatus) (bool, error)
	CountByStatus(ctx context.Context) (map[ClientStatus]int, error)
}
