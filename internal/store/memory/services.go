// AngelaMos | 2026
// services.go

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/carterperez-dev/homemgmt/internal/catalog"
	"github.com/carterperez-dev/homemgmt/internal/core"
)

type serviceRepo struct {
	s  *Store
	mu locker
}

func (r *serviceRepo) Create(_ context.Context, record *catalog.ServiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.s.data.serviceSeq++
	record.ID = r.s.data.serviceSeq
	record.CreatedAt = r.s.now()
	record.UpdatedAt = record.CreatedAt
	r.s.data.services[record.ID] = *record

	return nil
}

func (r *serviceRepo) GetByID(_ context.Context, id int64) (*catalog.ServiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.s.data.services[id]
	if !ok {
		return nil, fmt.Errorf("get service: %w", core.ErrNotFound)
	}
	return &record, nil
}

func (r *serviceRepo) List(context.Context) ([]catalog.ServiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.s.data.sortedServices(), nil
}

func (r *serviceRepo) FindByInstallCmd(
	_ context.Context,
	cmd string,
) (*catalog.ServiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.s.data.sortedServices() {
		if record.InstallationCmd == cmd {
			return &record, nil
		}
	}
	return nil, fmt.Errorf("find service: %w", core.ErrNotFound)
}

func (r *serviceRepo) Update(_ context.Context, record *catalog.ServiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.s.data.services[record.ID]
	if !ok {
		return fmt.Errorf("update service: %w", core.ErrNotFound)
	}

	existing.ServiceName = record.ServiceName
	existing.InstallationCmd = record.InstallationCmd
	existing.UpdatedAt = r.s.now()
	r.s.data.services[record.ID] = existing

	record.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *serviceRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.data.services[id]; !ok {
		return fmt.Errorf("delete service: %w", core.ErrNotFound)
	}
	delete(r.s.data.services, id)
	return nil
}

func (r *serviceRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.s.data.services)), nil
}

func (t *tables) sortedServices() []catalog.ServiceRecord {
	out := make([]catalog.ServiceRecord, 0, len(t.services))
	for _, record := range t.services {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
