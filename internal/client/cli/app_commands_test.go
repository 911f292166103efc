package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agritrack/agritrack-cli/internal/client/api"
	"github.com/agritrack/agritrack-cli/internal/client/config"
	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/permissions"
	"github.com/agritrack/agritrack-cli/internal/client/session"
	"github.com/agritrack/agritrack-cli/internal/client/stageform"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func stubInputs(t *testing.T, username string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

type fakeAuthSvc struct {
	loginUser string
	loginPass string
	loginSess *session.Session
	loginErr  error

	logoutCalled bool
	logoutErr    error
}

func (f *fakeAuthSvc) Login(_ context.Context, username, password string) (*session.Session, error) {
	f.loginUser, f.loginPass = username, password
	return f.loginSess, f.loginErr
}
func (f *fakeAuthSvc) Register(_ context.Context, req models.RegisterRequest) (*session.Session, error) {
	return f.loginSess, f.loginErr
}
func (f *fakeAuthSvc) Restore(context.Context) (*session.Session, error) { return nil, nil }
func (f *fakeAuthSvc) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}

type fakeProductSvc struct {
	page    *models.ProductPage
	product *models.Product
	getErr  error

	addRet   *models.Product
	addErr   error
	addCalls int
	lastReq  models.StageRequest
}

func (f *fakeProductSvc) List(_ context.Context, page, size int, sortBy, sortDir string) (*models.ProductPage, error) {
	return f.page, nil
}
func (f *fakeProductSvc) Search(_ context.Context, filter models.SearchFilter) ([]models.Product, error) {
	return nil, nil
}
func (f *fakeProductSvc) Get(_ context.Context, id string) (*models.Product, error) {
	return f.product, f.getErr
}
func (f *fakeProductSvc) History(_ context.Context, id string) ([]models.TrackingStage, error) {
	return nil, nil
}
func (f *fakeProductSvc) AllowedStages(sess *session.Session) []string {
	if sess == nil {
		return nil
	}
	return permissions.AllowedStages(sess.Roles, sess.StageProfile)
}
func (f *fakeProductSvc) AddStage(_ context.Context, sess *session.Session, productID string, req models.StageRequest) (*models.Product, error) {
	f.addCalls++
	f.lastReq = req
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.addRet, nil
}
func (f *fakeProductSvc) Stats(context.Context) (*models.DashboardStats, error) { return nil, nil }
func (f *fakeProductSvc) Create(_ context.Context, p models.Product) (*models.Product, error) {
	return &p, nil
}
func (f *fakeProductSvc) Update(_ context.Context, id string, p models.Product) (*models.Product, error) {
	return &p, nil
}
func (f *fakeProductSvc) Delete(context.Context, string) error { return nil }

func newTestApp(ps *fakeProductSvc, as *fakeAuthSvc, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		config:   &config.Config{RequestTimeout: time.Second},
		auth:     as,
		products: ps,
		form:     stageform.New(ps),
		reader:   reader,
		out:      out,
	}
}

// ------------ tests ------------

func TestLogin_Success(t *testing.T) {
	as := &fakeAuthSvc{loginSess: &session.Session{Username: "amara", Roles: []string{models.RoleProcessor}}}
	var out bytes.Buffer
	a := newTestApp(&fakeProductSvc{}, as, readerFromLines(), &out)

	restore := stubInputs(t, "amara", []byte("secret"))
	defer restore()

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "amara", as.loginUser)
	require.Equal(t, "secret", as.loginPass)
	require.True(t, a.isLoggedIn())
	require.Contains(t, out.String(), "Logged in as amara")
}

func TestLogin_BadCredentials(t *testing.T) {
	as := &fakeAuthSvc{loginErr: common.ErrUnauthorized}
	var out bytes.Buffer
	a := newTestApp(&fakeProductSvc{}, as, readerFromLines(), &out)

	restore := stubInputs(t, "amara", []byte("wrong"))
	defer restore()

	require.Error(t, a.Login(context.Background()))
	require.False(t, a.isLoggedIn())
	require.Contains(t, out.String(), "Not authorized")
}

func TestLogout(t *testing.T) {
	as := &fakeAuthSvc{}
	var out bytes.Buffer
	a := newTestApp(&fakeProductSvc{}, as, readerFromLines(), &out)
	a.sess = &session.Session{Username: "amara"}
	a.current = &models.Product{ID: "p1"}

	require.NoError(t, a.Logout(context.Background()))
	require.True(t, as.logoutCalled)
	require.False(t, a.isLoggedIn())
	require.Nil(t, a.current)
}

func TestShow_CachesProduct(t *testing.T) {
	product := &models.Product{ID: "p1", Name: "Golden Apples", TrackingHistory: []models.TrackingStage{
		{Stage: permissions.StageFarm, Location: "Field 3", Handler: "Joe"},
	}}
	ps := &fakeProductSvc{product: product}
	var out bytes.Buffer
	a := newTestApp(ps, &fakeAuthSvc{}, readerFromLines(), &out)

	require.NoError(t, a.Show(context.Background(), "p1"))
	require.Same(t, product, a.current)
	require.Contains(t, out.String(), "Golden Apples")
	require.Contains(t, out.String(), "Field 3")
}

func TestAddStage_ViewOnlyAccount(t *testing.T) {
	ps := &fakeProductSvc{}
	var out bytes.Buffer
	a := newTestApp(ps, &fakeAuthSvc{}, readerFromLines(), &out)
	a.sess = &session.Session{Username: "guest", Roles: []string{models.RoleUser}}

	err := a.AddStage(context.Background(), "p1")
	require.ErrorIs(t, err, common.ErrPermissionDenied)
	require.Zero(t, ps.addCalls)
	require.Contains(t, out.String(), "not authorized")
}

func TestAddStage_Success(t *testing.T) {
	refreshed := &models.Product{ID: "p1", Name: "Golden Apples", TrackingHistory: []models.TrackingStage{
		{Stage: permissions.StageProcessing, Location: "Plant 7", Handler: "amara"},
	}}
	ps := &fakeProductSvc{addRet: refreshed}
	var out bytes.Buffer

	// stage pick "1" (Processing), location typed, handler defaulted, no notes
	reader := readerFromLines("1", "Plant 7", "", "")
	a := newTestApp(ps, &fakeAuthSvc{}, reader, &out)
	a.sess = &session.Session{
		Username:     "amara",
		Roles:        []string{models.RoleProcessor},
		StageProfile: permissions.ProfileProcessor,
	}

	require.NoError(t, a.AddStage(context.Background(), "p1"))
	require.Equal(t, 1, ps.addCalls)
	require.Equal(t, permissions.StageProcessing, ps.lastReq.Stage)
	require.Equal(t, "Plant 7", ps.lastReq.Location)
	require.Equal(t, "amara", ps.lastReq.Handler)
	require.Same(t, refreshed, a.current)
	require.Equal(t, stageform.StateClosed, a.form.State())
	require.Contains(t, out.String(), "Tracking stage recorded")
}

func TestAddStage_ServerDenialDoesNotRetry(t *testing.T) {
	ps := &fakeProductSvc{addErr: common.ErrPermissionDenied}
	var out bytes.Buffer

	reader := readerFromLines("1", "Plant 7", "", "")
	a := newTestApp(ps, &fakeAuthSvc{}, reader, &out)
	a.sess = &session.Session{
		Username:     "amara",
		Roles:        []string{models.RoleProcessor},
		StageProfile: permissions.ProfileProcessor,
	}

	err := a.AddStage(context.Background(), "p1")
	require.ErrorIs(t, err, common.ErrPermissionDenied)
	require.Equal(t, 1, ps.addCalls)
	require.Equal(t, stageform.StateClosed, a.form.State())
	require.Contains(t, out.String(), "You are not authorized to add this tracking stage")
}

func TestAddStage_RetryResubmitsSamePayload(t *testing.T) {
	ps := &fakeProductSvc{addErr: common.ErrUnavailable}
	var out bytes.Buffer

	// stage pick, location, handler default, no notes, "y" to retry once,
	// then the input runs dry and the second failure gives up.
	reader := readerFromLines("1", "Plant 7", "", "", "y")
	a := newTestApp(ps, &fakeAuthSvc{}, reader, &out)
	a.sess = &session.Session{
		Username:     "amara",
		Roles:        []string{models.RoleProcessor},
		StageProfile: permissions.ProfileProcessor,
	}

	err := a.AddStage(context.Background(), "p1")
	require.ErrorIs(t, err, common.ErrUnavailable)
	require.Equal(t, 2, ps.addCalls)
	require.Equal(t, "Plant 7", ps.lastReq.Location)
	require.Equal(t, stageform.StateClosed, a.form.State())
}

// syncBuffer guards concurrent writes from the watch goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// fakeStream stubs just the streaming surface of api.Client.
type fakeStream struct {
	api.Client
	events []models.Product
	block  bool
	err    error
}

func (f *fakeStream) WatchProducts(ctx context.Context, fn func(models.Product)) error {
	for _, p := range f.events {
		fn(p)
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func TestWatch_StreamEndLeavesNextCommandUnread(t *testing.T) {
	out := &syncBuffer{}
	reader := readerFromLines("", "list")
	a := newTestApp(&fakeProductSvc{}, &fakeAuthSvc{}, reader, out)
	a.client = &fakeStream{events: []models.Product{{ID: "p1", Name: "Golden Apples"}}}

	require.NoError(t, a.Watch(context.Background()))
	require.Contains(t, out.String(), "Golden Apples")

	// Watch consumed exactly one line (the stop-Enter); the next command is
	// still there for whoever reads stdin after it.
	next, err := a.reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "list\n", next)
}

func TestWatch_EnterStopsStream(t *testing.T) {
	out := &syncBuffer{}
	a := newTestApp(&fakeProductSvc{}, &fakeAuthSvc{}, readerFromLines("", ""), out)
	a.client = &fakeStream{block: true}

	require.NoError(t, a.Watch(context.Background()))
	require.Contains(t, out.String(), "Stopped watching.")
}
