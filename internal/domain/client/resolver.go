// Package client maps the weak identity signals of a booking request (a
// logged-in identity, a phone number, or neither) to exactly one durable
// client row per tenant.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

var (
	ErrClientNotFound  = errors.New("client: not found")
	ErrDuplicateClient = errors.New("client: duplicate")

	ErrIdentityResolutionFailed = httperr.ErrIdentity("identity_resolution_failed")
)

// Store is the persistence the resolver needs. Callers pass a store bound to
// the same transaction that will insert the appointment.
type Store interface {
	FindClientByIdentity(ctx context.Context, tenantID uint, identity string) (*models.Client, error)
	FindClientByPhone(ctx context.Context, tenantID uint, phone string) (*models.Client, error)
	// CreateClient returns ErrDuplicateClient when a unique (tenant, phone) or
	// (tenant, identity) row already exists, leaving the transaction usable.
	CreateClient(ctx context.Context, c *models.Client) error
	LinkClientIdentity(ctx context.Context, clientID uint, identity string) error
	ReassertClientOwnership(ctx context.Context, clientID uint, tenantID uint, ownerUserID *uint) error
}

type Input struct {
	TenantID    uint
	OwnerUserID *uint

	// Identity is the authenticated subject, empty for anonymous callers.
	Identity string

	Name  string
	Phone string
	Email string
}

type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve runs identity -> phone -> create, then re-asserts tenant ownership
// on whichever row matched. It never returns a nil client without an error.
func (r *Resolver) Resolve(ctx context.Context, store Store, in Input) (*models.Client, error) {
	in.Phone = NormalizePhone(in.Phone)
	in.Identity = strings.TrimSpace(in.Identity)

	c, err := r.match(ctx, store, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityResolutionFailed, err)
	}

	if c == nil {
		c, err = r.create(ctx, store, in)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIdentityResolutionFailed, err)
		}
	}

	if c == nil || c.ID == 0 {
		return nil, ErrIdentityResolutionFailed
	}

	if err := store.ReassertClientOwnership(ctx, c.ID, in.TenantID, in.OwnerUserID); err != nil {
		return nil, fmt.Errorf("%w: reconcile: %v", ErrIdentityResolutionFailed, err)
	}
	c.TenantID = in.TenantID
	c.OwnerUserID = in.OwnerUserID

	return c, nil
}

func (r *Resolver) match(ctx context.Context, store Store, in Input) (*models.Client, error) {
	if in.Identity != "" {
		c, err := store.FindClientByIdentity(ctx, in.TenantID, in.Identity)
		switch {
		case err == nil:
			return c, nil
		case !errors.Is(err, ErrClientNotFound):
			return nil, err
		}
	}

	if in.Phone == "" {
		return nil, nil
	}

	c, err := store.FindClientByPhone(ctx, in.TenantID, in.Phone)
	if errors.Is(err, ErrClientNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.backfillIdentity(ctx, store, c, in.Identity); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Resolver) backfillIdentity(ctx context.Context, store Store, c *models.Client, identity string) error {
	if identity == "" {
		return nil
	}
	if c.AuthIdentity != nil {
		if *c.AuthIdentity != identity {
			r.logger.Info("phone match already linked to another identity",
				zap.Uint("client_id", c.ID),
				zap.Uint("tenant_id", c.TenantID),
			)
		}
		return nil
	}

	err := store.LinkClientIdentity(ctx, c.ID, identity)
	if errors.Is(err, ErrDuplicateClient) {
		// another row claimed the identity concurrently; keep the phone match
		r.logger.Info("identity already linked elsewhere, skipping backfill",
			zap.Uint("client_id", c.ID),
		)
		return nil
	}
	if err != nil {
		return err
	}
	c.AuthIdentity = &identity
	r.logger.Debug("identity linked to existing client", zap.Uint("client_id", c.ID))
	return nil
}

func (r *Resolver) create(ctx context.Context, store Store, in Input) (*models.Client, error) {
	c := &models.Client{
		TenantID:    in.TenantID,
		OwnerUserID: in.OwnerUserID,
		Name:        strings.TrimSpace(in.Name),
		Phone:       in.Phone,
		Email:       strings.TrimSpace(in.Email),
	}
	if in.Identity != "" {
		identity := in.Identity
		c.AuthIdentity = &identity
	}

	err := store.CreateClient(ctx, c)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrDuplicateClient) {
		return nil, err
	}

	// Lost a race with a concurrent first booking: the row now exists.
	r.logger.Debug("client insert conflicted, fetching existing row",
		zap.Uint("tenant_id", in.TenantID),
	)
	existing, err := r.match(ctx, store, in)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrClientNotFound
	}
	return existing, nil
}

// NormalizePhone keeps digits and a leading '+', so "+55 (11) 9999-1234" and
// "+551199991234" resolve to the same client.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}
