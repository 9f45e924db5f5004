package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entity is the interface shared by every candidate kind. Implementations
// are plain data structs; all behavior lives in the extractor and scorer.
type Entity interface {
	// EntityID returns the candidate's unique identifier.
	EntityID() string

	// EntityKind returns the concrete kind of the candidate.
	EntityKind() Kind

	// DisplayName returns a human-readable label for CLI and log output.
	DisplayName() string

	// SearchText returns the concatenated free text the embedder consumes.
	SearchText() string
}

// Person is an individual sourcing candidate.
type Person struct {
	Kind Kind   `json:"kind"` // always "person"
	ID   string `json:"id"`
	Name string `json:"name"`

	// Free-text profile fields
	Headline string `json:"headline,omitempty"` // One-line self description
	About    string `json:"about,omitempty"`    // Longer bio text

	// Structured profile fields
	Role     string `json:"role,omitempty"`     // Current role title
	Company  string `json:"company,omitempty"`  // Current company
	Location string `json:"location,omitempty"` // Raw location string

	// Set-valued fields
	Highlights   []string `json:"highlights,omitempty"`   // Notable achievements or signals
	Affiliations []string `json:"affiliations,omitempty"` // Schools, past employers, communities
}

// Company is a company or project candidate.
type Company struct {
	Kind Kind   `json:"kind"` // always "company"
	ID   string `json:"id"`
	Name string `json:"name"`

	Tagline  string `json:"tagline,omitempty"`  // One-line pitch
	About    string `json:"about,omitempty"`    // Longer description
	Sector   string `json:"sector,omitempty"`   // Self-reported sector
	Stage    string `json:"stage,omitempty"`    // Funding or maturity stage
	Location string `json:"location,omitempty"` // Raw location string

	Highlights []string `json:"highlights,omitempty"` // Traction notes, launches
}

// Signal is a raw market signal: a launch, a departure, a filing, a post.
type Signal struct {
	Kind Kind   `json:"kind"` // always "signal"
	ID   string `json:"id"`

	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	SignalKind string `json:"signal_kind,omitempty"` // e.g. "new-company", "spin-out", "funding"
	Subject    string `json:"subject,omitempty"`     // Person or company the signal is about
	Location   string `json:"location,omitempty"`    // Raw location string
}

func (p *Person) EntityID() string    { return p.ID }
func (p *Person) EntityKind() Kind    { return KindPerson }
func (p *Person) DisplayName() string { return p.Name }

// SearchText concatenates every free-text field of the person.
func (p *Person) SearchText() string {
	parts := []string{p.Name, p.Headline, p.About, p.Role, p.Company}
	parts = append(parts, p.Highlights...)
	parts = append(parts, p.Affiliations...)
	return joinNonEmpty(parts)
}

func (c *Company) EntityID() string    { return c.ID }
func (c *Company) EntityKind() Kind    { return KindCompany }
func (c *Company) DisplayName() string { return c.Name }

// SearchText concatenates every free-text field of the company.
func (c *Company) SearchText() string {
	parts := []string{c.Name, c.Tagline, c.About, c.Sector}
	parts = append(parts, c.Highlights...)
	return joinNonEmpty(parts)
}

func (s *Signal) EntityID() string { return s.ID }
func (s *Signal) EntityKind() Kind { return KindSignal }

// DisplayName prefers the title, falling back to the subject.
func (s *Signal) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Subject
}

// SearchText concatenates the signal's title, body, and subject.
func (s *Signal) SearchText() string {
	return joinNonEmpty([]string{s.Title, s.Body, s.Subject})
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, " ")
}

// DecodeEntity decodes a tagged entity envelope ({"kind": "...", ...fields}).
// Missing fields decode to zero values; an unknown or absent kind is an error.
func DecodeEntity(data []byte) (Entity, error) {
	var probe struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode entity envelope: %w", err)
	}

	switch probe.Kind {
	case KindPerson:
		var p Person
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode person: %w", err)
		}
		p.Kind = KindPerson
		return &p, nil

	case KindCompany:
		var c Company
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode company: %w", err)
		}
		c.Kind = KindCompany
		return &c, nil

	case KindSignal:
		var s Signal
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode signal: %w", err)
		}
		s.Kind = KindSignal
		return &s, nil

	default:
		return nil, fmt.Errorf("unknown entity kind %q", probe.Kind)
	}
}

// EncodeEntity marshals an entity as a tagged envelope, stamping the kind
// field so the output always round-trips through DecodeEntity.
func EncodeEntity(e Entity) ([]byte, error) {
	switch v := e.(type) {
	case *Person:
		p := *v
		p.Kind = KindPerson
		return json.Marshal(&p)
	case *Company:
		c := *v
		c.Kind = KindCompany
		return json.Marshal(&c)
	case *Signal:
		s := *v
		s.Kind = KindSignal
		return json.Marshal(&s)
	default:
		return nil, fmt.Errorf("unknown entity type %T", e)
	}
}
