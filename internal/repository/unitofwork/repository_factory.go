package unitofwork

import "context"

// RepositoryFactory hands out a fresh unit of work per request, so services
// never share transactional state.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
