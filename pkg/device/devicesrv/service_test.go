package devicesrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/device"
	"github.com/LuisIslasAcosta/apiVini/pkg/device/devicesrv"
	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

type fakeDeviceRepo struct {
	nextID int64
	byID   map[int64]device.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{nextID: 1, byID: make(map[int64]device.Device)}
}

func (r *fakeDeviceRepo) Create(_ context.Context, rec device.CreateRequest) (int64, error) {
	id := r.nextID
	r.nextID++
	r.byID[id] = device.Device{
		ID:         id,
		IdentityID: kernel.NewIdentityID(rec.IdentityID),
		Modelo:     rec.Modelo,
		AssignedAt: time.Now(),
	}
	return id, nil
}

func (r *fakeDeviceRepo) FindByID(_ context.Context, id int64) (*device.Device, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, device.ErrNotFound()
	}
	return &d, nil
}

func (r *fakeDeviceRepo) FindAll(_ context.Context) ([]device.Device, error) {
	out := make([]device.Device, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDeviceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return device.ErrNotFound()
	}
	delete(r.byID, id)
	return nil
}

// fakeOwners implements the identity lookup the service uses to verify a
// unit's owner. Only FindByID matters here.
type fakeOwners struct {
	known map[kernel.IdentityID]bool
}

func (o *fakeOwners) FindByID(_ context.Context, id kernel.IdentityID) (*identity.Identity, error) {
	if !o.known[id] {
		return nil, identity.ErrNotFound()
	}
	return &identity.Identity{ID: id}, nil
}

func (o *fakeOwners) Create(context.Context, identity.NewIdentity) (kernel.IdentityID, error) {
	panic("not used")
}
func (o *fakeOwners) FindByEmail(context.Context, string) (*identity.Identity, error) {
	panic("not used")
}
func (o *fakeOwners) FindByName(context.Context, string) ([]identity.Identity, error) {
	panic("not used")
}
func (o *fakeOwners) FindAll(context.Context) ([]identity.Identity, error) { panic("not used") }
func (o *fakeOwners) Update(context.Context, kernel.IdentityID, identity.UpdateRequest) error {
	panic("not used")
}
func (o *fakeOwners) Delete(context.Context, kernel.IdentityID) error { panic("not used") }
func (o *fakeOwners) FindProfile(context.Context, kernel.IdentityID) (*identity.Profile, error) {
	panic("not used")
}

func newService(repo *fakeDeviceRepo, ownerIDs ...int64) *devicesrv.Service {
	owners := &fakeOwners{known: make(map[kernel.IdentityID]bool)}
	for _, id := range ownerIDs {
		owners.known[kernel.NewIdentityID(id)] = true
	}
	return devicesrv.NewService(repo, owners)
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeDeviceRepo()
	svc := newService(repo, 1)

	cases := []device.CreateRequest{
		{IdentityID: 0, Modelo: "Smart Cane v2"},
		{IdentityID: 1, Modelo: ""},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		var e *errx.Error
		if !errx.As(err, &e) || e.Type != errx.TypeValidation {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatal("invalid requests must not persist anything")
	}
}

func TestRegister_UnknownOwner(t *testing.T) {
	repo := newFakeDeviceRepo()
	svc := newService(repo, 1)

	_, err := svc.Register(context.Background(), device.CreateRequest{IdentityID: 99, Modelo: "Smart Cane v2"})
	var e *errx.Error
	if !errx.As(err, &e) || e.Type != errx.TypeNotFound {
		t.Fatalf("expected not-found for unknown owner, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("device must not be written when the owner is unknown")
	}
}

func TestRegisterListRemove(t *testing.T) {
	repo := newFakeDeviceRepo()
	svc := newService(repo, 1)

	id, err := svc.Register(context.Background(), device.CreateRequest{IdentityID: 1, Modelo: "Smart Cane v2"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	devices, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(devices) != 1 || devices[0].Modelo != "Smart Cane v2" {
		t.Fatalf("unexpected listing: %+v", devices)
	}

	if err := svc.Remove(context.Background(), id); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	// Empty catalog answers not-found, as does removing a missing unit.
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected not-found from empty listing")
	}
	if err := svc.Remove(context.Background(), id); err == nil {
		t.Fatal("expected not-found on second removal")
	}
}
