package client

import (
	"context"
	"net/http"

	"github.com/dkoval/authkit/models"
)

// PrivilegesClient retrieves the capability tree granted to the
// authenticated user.
type PrivilegesClient struct {
	http *http.Client
	url  string
}

// NewPrivilegesClient returns a PrivilegesClient reading from url.
func NewPrivilegesClient(httpClient *http.Client, url string) *PrivilegesClient {
	return &PrivilegesClient{http: httpClient, url: url}
}

// GetPrivileges fetches the privilege tree.
func (c *PrivilegesClient) GetPrivileges(ctx context.Context) ([]models.Privilege, error) {
	var privileges []models.Privilege
	if err := getJSON(ctx, c.http, c.url, &privileges); err != nil {
		return nil, err
	}
	return privileges, nil
}
