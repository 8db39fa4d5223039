package domain

import (
	"errors"
	"fmt"
)

// Role is the closed set of staff roles. Each role has its own name registry.
type Role string

const (
	RoleCook     Role = "cook"
	RoleServer   Role = "server"
	RoleManager  Role = "manager"
	RoleReceiver Role = "receiver"
)

// Roles lists every role in registration order.
var Roles = []Role{RoleCook, RoleServer, RoleManager, RoleReceiver}

// Cook is the only role that carries state: the dishes it is preparing.
type Cook struct {
	name   string
	making map[*Dish]struct{}
}

// NewCook creates a cook
func NewCook(name string) (*Cook, error) {
	if name == "" {
		return nil, errors.New("cook name is required")
	}
	return &Cook{name: name, making: make(map[*Dish]struct{})}, nil
}

func (c *Cook) Name() string { return c.name }

// Holds reports whether the cook has seen the dish and not yet prepared it.
func (c *Cook) Holds(d *Dish) bool {
	_, ok := c.making[d]
	return ok
}

// Making returns the dishes the cook is preparing.
func (c *Cook) Making() []*Dish {
	dishes := make([]*Dish, 0, len(c.making))
	for d := range c.making {
		dishes = append(dishes, d)
	}
	return dishes
}

type staff struct {
	cooks map[string]*Cook
	names map[Role]map[string]struct{}
}

func newStaff() *staff {
	s := &staff{
		cooks: make(map[string]*Cook),
		names: make(map[Role]map[string]struct{}, len(Roles)),
	}
	for _, role := range Roles {
		s.names[role] = make(map[string]struct{})
	}
	return s
}

func (s *staff) hire(role Role, name string) error {
	registry, ok := s.names[role]
	if !ok {
		return fmt.Errorf("role %q: %w", role, ErrInvalidArgument)
	}
	if name == "" {
		return fmt.Errorf("%s name is required: %w", role, ErrInvalidArgument)
	}
	if _, exists := registry[name]; exists {
		return fmt.Errorf("%s %q: %w", role, name, ErrDuplicateKey)
	}
	if role == RoleCook {
		cook, err := NewCook(name)
		if err != nil {
			return err
		}
		s.cooks[name] = cook
	}
	registry[name] = struct{}{}
	return nil
}

func (s *staff) has(role Role, name string) bool {
	_, ok := s.names[role][name]
	return ok
}

func (s *staff) require(role Role, name string) error {
	if !s.has(role, name) {
		return fmt.Errorf("%s %q: %w", role, name, ErrNotFound)
	}
	return nil
}
