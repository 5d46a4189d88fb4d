package mongodb

import "context"

// Drop removes the whole test database.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
