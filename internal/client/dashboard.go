package client

import (
	"context"
	"listingBoard/internal/models"

	"golang.org/x/sync/errgroup"
)

// Dashboard holds one slot per status. A failed fetch leaves its own slot
// empty with the error next to it and does not touch the others.
type Dashboard struct {
	Pending     []models.Listing
	Verified    []models.Listing
	Rejected    []models.Listing
	PendingErr  error
	VerifiedErr error
	RejectedErr error
}

func (d Dashboard) Err() error {
	for _, err := range []error{d.PendingErr, d.VerifiedErr, d.RejectedErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) ListByStatus(ctx context.Context, status models.VerificationStatus) ([]models.Listing, error) {
	req, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	resp, err := req.
		SetQueryParam(`status`, string(status)).
		SetResult(&listings).
		SetError(&models.ErrorResponse{}).
		Get(`/listings`)
	if err := check(resp, err); err != nil {
		return nil, err
	}

	return listings, nil
}

func (c *Client) Accept(ctx context.Context, id string) (models.Listing, []models.Listing, error) {
	return c.transition(ctx, id, models.StatusVerified)
}

func (c *Client) Reject(ctx context.Context, id string) (models.Listing, []models.Listing, error) {
	return c.transition(ctx, id, models.StatusRejected)
}

// transition asks the server to move the listing and then reloads the
// pending queue. Local state is never patched ahead of the server.
func (c *Client) transition(ctx context.Context, id string, target models.VerificationStatus) (models.Listing, []models.Listing, error) {
	req, err := c.authorized(ctx)
	if err != nil {
		return models.Listing{}, nil, err
	}

	var listing models.Listing
	resp, err := req.
		SetPathParam(`id`, id).
		SetBody(models.TransitionRequest{Verification: target}).
		SetResult(&listing).
		SetError(&models.ErrorResponse{}).
		Patch(`/listings/{id}`)
	if err := check(resp, err); err != nil {
		return models.Listing{}, nil, err
	}

	pending, err := c.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return listing, nil, err
	}

	return listing, pending, nil
}

func (c *Client) LoadDashboard(ctx context.Context) Dashboard {
	var (
		d  Dashboard
		eg errgroup.Group
	)

	eg.Go(func() error {
		d.Pending, d.PendingErr = c.ListByStatus(ctx, models.StatusPending)
		return nil
	})
	eg.Go(func() error {
		d.Verified, d.VerifiedErr = c.ListByStatus(ctx, models.StatusVerified)
		return nil
	})
	eg.Go(func() error {
		d.Rejected, d.RejectedErr = c.ListByStatus(ctx, models.StatusRejected)
		return nil
	})

	eg.Wait()

	return d
}
