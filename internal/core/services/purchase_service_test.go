package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/core/domain"

	"gorm.io/gorm"
)

// stubFilmRepo is an in-memory FilmRepository
type stubFilmRepo struct {
	films map[uint]*models.Film
}

func newStubFilmRepo(films ...*models.Film) *stubFilmRepo {
	r := &stubFilmRepo{films: make(map[uint]*models.Film)}
	for _, f := range films {
		r.films[f.ID] = f
	}
	return r
}

func (r *stubFilmRepo) Create(ctx context.Context, film *models.Film) error {
	if film.ID == 0 {
		film.ID = uint(len(r.films) + 1)
	}
	r.films[film.ID] = film
	return nil
}

func (r *stubFilmRepo) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	film, ok := r.films[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return film, nil
}

func (r *stubFilmRepo) Update(ctx context.Context, film *models.Film) error {
	r.films[film.ID] = film
	return nil
}

func (r *stubFilmRepo) Delete(ctx context.Context, id uint) error {
	delete(r.films, id)
	return nil
}

func (r *stubFilmRepo) List(ctx context.Context, search string, offset, limit int) ([]*models.Film, int64, error) {
	var out []*models.Film
	for _, f := range r.films {
		out = append(out, f)
	}
	return out, int64(len(out)), nil
}

func (r *stubFilmRepo) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	for id := range r.films {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *stubFilmRepo) SetRating(ctx context.Context, id uint, rating float64) error {
	if film, ok := r.films[id]; ok {
		film.Rating = rating
	}
	return nil
}

// stubPurchaseRepo mirrors the real repository's transaction semantics:
// the balance check, duplicate check, debit, and insert happen under one
// lock so concurrent calls serialize.
type stubPurchaseRepo struct {
	mu        sync.Mutex
	balances  map[uint]uint
	purchases []*models.Purchase
	nextID    uint
}

func newStubPurchaseRepo(balances map[uint]uint) *stubPurchaseRepo {
	return &stubPurchaseRepo{balances: balances, nextID: 1}
}

func (r *stubPurchaseRepo) CreateWithDebit(ctx context.Context, userID, filmID, price uint) (*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.purchases {
		if p.UserID == userID && p.FilmID == filmID {
			return nil, domain.ErrAlreadyOwned
		}
	}

	balance, ok := r.balances[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if balance < price {
		return nil, domain.ErrInsufficientBalance
	}

	r.balances[userID] = balance - price
	purchase := &models.Purchase{
		ID:        r.nextID,
		UserID:    userID,
		FilmID:    filmID,
		Price:     price,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.purchases = append(r.purchases, purchase)
	return purchase, nil
}

func (r *stubPurchaseRepo) Exists(ctx context.Context, userID, filmID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.purchases {
		if p.UserID == userID && p.FilmID == filmID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPurchaseRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Purchase
	for _, p := range r.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPurchaseRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.purchases)), nil
}

func (r *stubPurchaseRepo) TotalRevenue(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, p := range r.purchases {
		total += int64(p.Price)
	}
	return total, nil
}

func (r *stubPurchaseRepo) ListRecent(ctx context.Context, limit int) ([]*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.purchases) {
		limit = len(r.purchases)
	}
	return r.purchases[len(r.purchases)-limit:], nil
}

func TestPurchaseDebitsBalance(t *testing.T) {
	films := newStubFilmRepo(&models.Film{ID: 1, Title: "The Long Signal", Price: 60})
	purchases := newStubPurchaseRepo(map[uint]uint{1: 100})
	svc := NewPurchaseService(purchases, films)
	ctx := context.Background()

	resp, err := svc.Purchase(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if resp.Price != 60 {
		t.Errorf("expected price 60, got %d", resp.Price)
	}
	if purchases.balances[1] != 40 {
		t.Errorf("expected balance 40 after debit, got %d", purchases.balances[1])
	}

	owned, err := svc.IsOwned(ctx, 1, 1)
	if err != nil {
		t.Fatalf("IsOwned failed: %v", err)
	}
	if !owned {
		t.Error("expected entitlement after purchase")
	}
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	films := newStubFilmRepo(&models.Film{ID: 1, Price: 60})
	purchases := newStubPurchaseRepo(map[uint]uint{1: 50})
	svc := NewPurchaseService(purchases, films)
	ctx := context.Background()

	_, err := svc.Purchase(ctx, 1, 1)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Failed purchase leaves balance and entitlements untouched
	if purchases.balances[1] != 50 {
		t.Errorf("expected balance unchanged at 50, got %d", purchases.balances[1])
	}
	if owned, _ := svc.IsOwned(ctx, 1, 1); owned {
		t.Error("expected no entitlement after failed purchase")
	}
}

func TestPurchaseUnknownFilm(t *testing.T) {
	films := newStubFilmRepo()
	purchases := newStubPurchaseRepo(map[uint]uint{1: 100})
	svc := NewPurchaseService(purchases, films)

	_, err := svc.Purchase(context.Background(), 1, 99)
	if !errors.Is(err, domain.ErrFilmNotFound) {
		t.Errorf("expected ErrFilmNotFound, got %v", err)
	}
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	films := newStubFilmRepo(&models.Film{ID: 1, Price: 30})
	purchases := newStubPurchaseRepo(map[uint]uint{1: 100})
	svc := NewPurchaseService(purchases, films)
	ctx := context.Background()

	if _, err := svc.Purchase(ctx, 1, 1); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}

	_, err := svc.Purchase(ctx, 1, 1)
	if !errors.Is(err, domain.ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}

	// Only the first purchase debited
	if purchases.balances[1] != 70 {
		t.Errorf("expected balance 70, got %d", purchases.balances[1])
	}
}

func TestPurchaseConcurrentDuplicates(t *testing.T) {
	films := newStubFilmRepo(&models.Film{ID: 1, Price: 60})
	purchases := newStubPurchaseRepo(map[uint]uint{1: 100})
	svc := NewPurchaseService(purchases, films)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Purchase(ctx, 1, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var committed, rejected int
	for err := range results {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, domain.ErrAlreadyOwned), errors.Is(err, domain.ErrInsufficientBalance):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if committed != 1 {
		t.Errorf("expected exactly 1 committed purchase, got %d", committed)
	}
	if rejected != attempts-1 {
		t.Errorf("expected %d rejected attempts, got %d", attempts-1, rejected)
	}
	if purchases.balances[1] != 40 {
		t.Errorf("expected a single debit leaving 40, got %d", purchases.balances[1])
	}
}
