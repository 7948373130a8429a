package github

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of APIClient for testing
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) AuthenticatedUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) ListRepositoriesPage(ctx context.Context, page, perPage int) ([]Repository, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Repository), args.Error(1)
}

func (m *MockAPIClient) SetRepositoryVisibility(ctx context.Context, owner, name string, private bool) error {
	args := m.Called(ctx, owner, name, private)
	return args.Error(0)
}

func (m *MockAPIClient) DeleteRepository(ctx context.Context, owner, name string) error {
	args := m.Called(ctx, owner, name)
	return args.Error(0)
}

func testRepo(owner, name string) Repository {
	return Repository{
		ID:         int64(len(owner) * len(name)),
		Name:       name,
		FullName:   owner + "/" + name,
		Visibility: "public",
		Owner:      Owner{Login: owner},
	}
}

func testRepos(owner string, names ...string) []Repository {
	repos := make([]Repository, 0, len(names))
	for _, name := range names {
		repos = append(repos, testRepo(owner, name))
	}
	return repos
}
