package google

import (
	"context"
	"fmt"

	"github.com/wqyuan/contactsheet/internal/domain"
	"golang.org/x/oauth2"
	people "google.golang.org/api/people/v1"
	"google.golang.org/api/option"
)

const (
	// resourceName scopes the connection listing to the authenticated user.
	resourceName = "people/me"

	// personFields is the fixed field projection requested for every page.
	personFields = "metadata,names,emailAddresses,phoneNumbers,organizations"
)

// Client fetches the authenticated user's contacts from the People API.
type Client struct {
	auth     *Authenticator
	pageSize int64
	service  *people.Service
}

// NewClient returns a Client that obtains its credential from auth and
// requests at most pageSize contacts per page.
func NewClient(auth *Authenticator, pageSize int) *Client {
	return &Client{
		auth:     auth,
		pageSize: int64(pageSize),
	}
}

// ensureService lazily obtains a credential and builds the People service.
func (c *Client) ensureService(ctx context.Context) error {
	if c.service != nil {
		return nil
	}
	token, err := c.auth.Token(ctx)
	if err != nil {
		return err
	}
	srv, err := people.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return fmt.Errorf("failed to create people service: %w", err)
	}
	c.service = srv
	return nil
}

// FetchAll retrieves every contact for the authenticated user, following
// page tokens until exhausted, and returns the normalized rows in API order.
// progress, if non-nil, is called once per fetched page with the page's
// record count and the running total. Any page error aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context, progress func(fetched, total int)) ([]domain.Contact, error) {
	if err := c.ensureService(ctx); err != nil {
		return nil, err
	}
	persons, err := fetchAll(ctx, serviceLister{svc: c.service, pageSize: c.pageSize}, progress)
	if err != nil {
		return nil, err
	}
	contacts := make([]domain.Contact, 0, len(persons))
	for _, p := range persons {
		contacts = append(contacts, mapPerson(p))
	}
	return contacts, nil
}

// connectionLister is the page-fetch seam; tests substitute a fake.
type connectionLister interface {
	listPage(ctx context.Context, pageToken string) (*people.ListConnectionsResponse, error)
}

type serviceLister struct {
	svc      *people.Service
	pageSize int64
}

func (s serviceLister) listPage(ctx context.Context, pageToken string) (*people.ListConnectionsResponse, error) {
	call := s.svc.People.Connections.List(resourceName).
		PageSize(s.pageSize).
		PersonFields(personFields)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return resp, nil
}

func fetchAll(ctx context.Context, lister connectionLister, progress func(fetched, total int)) ([]*people.Person, error) {
	var all []*people.Person
	pageToken := ""
	for {
		resp, err := lister.listPage(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			break
		}
		all = append(all, resp.Connections...)
		if progress != nil {
			progress(len(resp.Connections), len(all))
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return all, nil
}
