package registration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/flutterwave"
	"github.com/linesmerrill/festival-registration-api/models"
	"github.com/linesmerrill/festival-registration-api/qr"
)

// memPending mimics the pendingPayments collection: single document updates
// are atomic and tx_ref and email are unique.
type memPending struct {
	mu   sync.Mutex
	docs map[string]models.PendingPayment
	now  func() time.Time
}

func newMemPending(now func() time.Time) *memPending {
	return &memPending{docs: map[string]models.PendingPayment{}, now: now}
}

func (m *memPending) put(p models.PendingPayment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.docs[p.TxRef] = p
}

func (m *memPending) get(txRef string) (models.PendingPayment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[txRef]
	return p, ok
}

func (m *memPending) FindByTxRef(ctx context.Context, txRef string) (*models.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[txRef]
	if !ok {
		return nil, databases.ErrNotFound
	}
	return &p, nil
}

func (m *memPending) FindByEmail(ctx context.Context, email string) (*models.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.docs {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, databases.ErrNotFound
}

func (m *memPending) InsertOne(ctx context.Context, p models.PendingPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[p.TxRef]; ok {
		return &databases.DuplicateKeyError{Index: databases.IndexPendingTxRef, Err: errors.New("E11000")}
	}
	for _, d := range m.docs {
		if d.Email == p.Email {
			return &databases.DuplicateKeyError{Index: databases.IndexPendingEmail, Err: errors.New("E11000")}
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.docs[p.TxRef] = p
	return nil
}

func (m *memPending) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, d := range m.docs {
		if d.ID == id && d.Status != models.PaymentStatusSuccessful {
			delete(m.docs, k)
		}
	}
	return nil
}

func (m *memPending) SetAmount(ctx context.Context, txRef string, amount int64) (*models.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[txRef]
	if !ok || p.Status == models.PaymentStatusSuccessful {
		return nil, databases.ErrNotFound
	}
	p.Amount = amount
	p.UpdatedAt = m.now()
	m.docs[txRef] = p
	return &p, nil
}

func (m *memPending) MarkSuccessful(ctx context.Context, txRef string) (*models.PendingPayment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[txRef]
	if !ok || p.Status == models.PaymentStatusSuccessful {
		return nil, false, nil
	}
	p.Status = models.PaymentStatusSuccessful
	p.UsedForRegistration = true
	p.UpdatedAt = m.now()
	m.docs[txRef] = p
	return &p, true, nil
}

func (m *memPending) RevertToPending(ctx context.Context, txRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[txRef]
	if ok && p.Status == models.PaymentStatusSuccessful {
		p.Status = models.PaymentStatusPending
		p.UsedForRegistration = false
		m.docs[txRef] = p
	}
	return nil
}

func (m *memPending) MarkFailed(ctx context.Context, txRef string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[txRef]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusFailed
	m.docs[txRef] = p
	return true, nil
}

func (m *memPending) FindAwaitingConfirmation(ctx context.Context, createdAfter, createdBefore time.Time, limit int64) ([]models.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PendingPayment
	for _, p := range m.docs {
		if p.Status == models.PaymentStatusPending && p.Amount > 0 &&
			!p.CreatedAt.Before(createdAfter) && !p.CreatedAt.After(createdBefore) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memRegistrants mimics festivalStudents with unique email and registrationId
type memRegistrants struct {
	mu        sync.Mutex
	docs      []models.Registrant
	insertErr error
}

func (m *memRegistrants) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *memRegistrants) FindByEmail(ctx context.Context, email string) (*models.Registrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.docs {
		if r.Email == email {
			return &r, nil
		}
	}
	return nil, databases.ErrNotFound
}

func (m *memRegistrants) InsertOne(ctx context.Context, r models.Registrant) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		err := m.insertErr
		m.insertErr = nil
		return primitive.NilObjectID, err
	}
	for _, d := range m.docs {
		if d.Email == r.Email {
			return primitive.NilObjectID, &databases.DuplicateKeyError{Index: databases.IndexRegistrantEmail, Err: errors.New("E11000")}
		}
		if d.RegistrationID == r.RegistrationID {
			return primitive.NilObjectID, &databases.DuplicateKeyError{Index: databases.IndexRegistrantRegistrationID, Err: errors.New("E11000")}
		}
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.docs = append(m.docs, r)
	return r.ID, nil
}

func (m *memRegistrants) FindAll(ctx context.Context) ([]models.Registrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Registrant{}, m.docs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeGateway struct {
	mu           sync.Mutex
	createCalls  []flutterwave.PaymentRequest
	createResp   *flutterwave.PaymentResponse
	createErr    error
	verifyResp   func(id string) (*flutterwave.TransactionResponse, error)
	byRefResp    func(txRef string) (*flutterwave.TransactionResponse, error)
	verifyCalled int
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req flutterwave.PaymentRequest) (*flutterwave.PaymentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls = append(g.createCalls, req)
	return g.createResp, g.createErr
}

func (g *fakeGateway) VerifyTransaction(ctx context.Context, id string) (*flutterwave.TransactionResponse, error) {
	g.mu.Lock()
	g.verifyCalled++
	g.mu.Unlock()
	return g.verifyResp(id)
}

func (g *fakeGateway) VerifyByReference(ctx context.Context, txRef string) (*flutterwave.TransactionResponse, error) {
	return g.byRefResp(txRef)
}

func successfulTransaction(txRef string, amount float64) *flutterwave.TransactionResponse {
	return &flutterwave.TransactionResponse{
		Status: flutterwave.StatusSuccess,
		Data: flutterwave.Transaction{
			ID:       288200108,
			TxRef:    txRef,
			Amount:   amount,
			Currency: "NGN",
			Status:   flutterwave.TransactionSuccessful,
		},
	}
}

// seqQR hands out EVT-000001, EVT-000002, ... unless ids is set
type seqQR struct {
	mu  sync.Mutex
	n   int
	ids []string
	err error
}

func (q *seqQR) Issue(name, email string) (qr.Code, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return qr.Code{}, q.err
	}
	q.n++
	id := fmt.Sprintf("EVT-%06d", q.n)
	if len(q.ids) > 0 {
		id, q.ids = q.ids[0], q.ids[1:]
	}
	return qr.Code{RegistrationID: id, PNG: []byte("png:" + id)}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Registrant
	err  error
}

func (n *recordingNotifier) SendConfirmation(ctx context.Context, reg models.Registrant, png []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, reg)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []models.Registrant
}

func (p *recordingPublisher) Publish(reg models.Registrant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, reg)
}

type harness struct {
	svc         *Service
	pending     *memPending
	registrants *memRegistrants
	gateway     *fakeGateway
	qr          *seqQR
	notifier    *recordingNotifier
	publisher   *recordingPublisher
	now         time.Time
}

func newHarness() *harness {
	h := &harness{
		registrants: &memRegistrants{},
		gateway:     &fakeGateway{},
		qr:          &seqQR{},
		notifier:    &recordingNotifier{},
		publisher:   &recordingPublisher{},
		now:         time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return h.now }
	h.pending = newMemPending(clock)
	h.svc = NewService(Deps{
		Pending:     h.pending,
		Registrants: h.registrants,
		Gateway:     h.gateway,
		QR:          h.qr,
		Notifier:    h.notifier,
		Publisher:   h.publisher,
	}, Settings{
		BaseURL:     "https://api.festival.example.com",
		FrontendURL: "https://festival.example.com",
	})
	h.svc.now = clock
	return h
}

func (h *harness) seedPending(txRef, email string, status string, amount int64, age time.Duration) models.PendingPayment {
	p := models.PendingPayment{
		TxRef:     txRef,
		Profile:   validProfile(email),
		Amount:    amount,
		Status:    status,
		CreatedAt: h.now.Add(-age),
		UpdatedAt: h.now.Add(-age),
	}
	h.pending.put(p)
	stored, _ := h.pending.get(txRef)
	return stored
}

func validProfile(email string) models.Profile {
	return models.Profile{
		FullName:                  "Ada Obi",
		Age:                       17,
		Gender:                    models.GenderFemale,
		PhoneNumber:               "08031234567",
		Email:                     email,
		School:                    "Kings College",
		Address:                   "12 Marina Road, Lagos",
		HowDidYouHearAboutUs:      "Church",
		AgreementFestivalEmailSms: true,
	}
}
