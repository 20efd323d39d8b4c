package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/BearBump/trackbook/config"
	"github.com/BearBump/trackbook/internal/integrations/carrier/fake"
	"github.com/BearBump/trackbook/internal/integrations/carrier/httpcarrier"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/platform"
	"github.com/BearBump/trackbook/internal/services/shipments"
	"github.com/BearBump/trackbook/internal/storage"
	"github.com/BearBump/trackbook/internal/storage/filekv"
	"github.com/BearBump/trackbook/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage:   config.StorageConfig{Backend: storage.BackendMemory},
		Trackbook: config.TrackbookConfig{CarrierSeed: 1},
	}
}

func TestRunServe(t *testing.T) {
	a, err := bootstrap(context.Background(), memoryConfig(), defaultFactories())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type addrs struct{ grpc, http string }
	addrCh := make(chan addrs, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runServe(ctx, serveOpts{
			grpcAddr: "127.0.0.1:0",
			httpAddr: "127.0.0.1:0",
			loc:      time.UTC,
			onListen: func(g, h string) { addrCh <- addrs{g, h} },
		}, a)
	}()
	ad := <-addrCh
	base := "http://" + ad.http

	get := func(path string) (int, string) {
		resp, err := http.Get(base + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}

	code, body := get("/healthz")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok"}`, body)

	code, body = get("/readyz")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ready"}`, body)

	code, body = get("/swagger.json")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"swagger"`)

	resp, err := http.Post(base+"/api/v1/shipments", "application/json",
		strings.NewReader(`{"trackingNumber":"1Z999AA10123456784","carrier":"UPS"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	code, body = get("/stats")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"backend":"memory","shipments":1,"contacts":0}`, body)

	code, body = get("/shipments")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "1Z999AA10123456784")

	conn, err := grpc.NewClient(ad.grpc, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	hc, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: serviceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.GetStatus())

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting servers to stop")
	case <-errCh:
	}
}

func TestBootstrap_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Backend = "floppy"
	_, err := bootstrap(context.Background(), cfg, defaultFactories())
	require.Error(t, err)
}

func TestFactories(t *testing.T) {
	f := defaultFactories()

	cfg := memoryConfig()
	_, isFake := f.newCarrier(cfg).(*fake.Client)
	require.True(t, isFake)

	cfg.Trackbook.CarrierSource = "http"
	cfg.Trackbook.CarrierBaseURL = "http://127.0.0.1:1"
	_, isHTTP := f.newCarrier(cfg).(*httpcarrier.Client)
	require.True(t, isHTTP)

	p, _ := f.newProducer(cfg)
	require.Nil(t, p)

	rl, _ := f.newRateLimiter(cfg)
	require.Nil(t, rl)

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	host := mr.Host()
	cfg.Redis = config.RedisConfig{Host: host, Port: port}
	cfg.Trackbook.CarrierRateLimitPerMinute = 5
	rl, closeRL := f.newRateLimiter(cfg)
	require.NotNil(t, rl)
	allowed, n, err := rl.Allow(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, int64(1), n)
	closeRL()

	cfg.Storage.Backend = storage.BackendRedis
	kv, closeKV, err := f.newKV(cfg)
	require.NoError(t, err)
	require.NoError(t, kv.SetItem(context.Background(), "a", "b"))
	closeKV()
}

func runCLI(t *testing.T, c *cli, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := c.command()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func fileCLI(t *testing.T, path string) *cli {
	c := newCLI(defaultFactories())
	c.confirm = func() platform.Confirmer { return platform.Always(false) }
	t.Setenv("configPath", "")
	t.Setenv("TRACKBOOK_STORAGE_FILE", path)
	return c
}

func loadFile[T models.Record](t *testing.T, path, key string) []T {
	t.Helper()
	kv, err := filekv.New(path)
	require.NoError(t, err)
	st := store.New[T](kv, key)
	require.NoError(t, st.Load(context.Background()))
	return st.All()
}

func TestCLI_Shipments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	out, _, err := runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "add", "--carrier", "UPS", "1Z999AA10123456784")
	require.NoError(t, err)
	require.Contains(t, out, shipments.MsgAdded)
	require.Contains(t, out, "Tracking History")

	_, errOut, err := runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "add", "--carrier", "DHL", "1Z999AA10123456784")
	require.Error(t, err)
	require.Contains(t, errOut, "This tracking number is already being tracked")

	saved := loadFile[models.Shipment](t, path, storage.ShipmentsKey)
	require.Len(t, saved, 1)
	id := saved[0].ID

	out, _, err = runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "list")
	require.NoError(t, err)
	require.Contains(t, out, "1Z999AA10123456784")
	require.NotContains(t, out, "Tracking History")

	out, _, err = runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "list", "--expand", id)
	require.NoError(t, err)
	require.Contains(t, out, "Tracking History")

	// подтверждение отклонено
	_, errOut, err = runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "delete", id)
	require.NoError(t, err)
	require.Contains(t, errOut, "nothing deleted")
	require.Len(t, loadFile[models.Shipment](t, path, storage.ShipmentsKey), 1)

	out, _, err = runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "delete", "--yes", id)
	require.NoError(t, err)
	require.Contains(t, out, "Tracking removed")
	require.Empty(t, loadFile[models.Shipment](t, path, storage.ShipmentsKey))

	out, _, err = runCLI(t, fileCLI(t, path), "--storage", "file", "shipments", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No shipments being tracked")
}

func TestCLI_Contacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	_, err := runCLIOK(t, path, "contacts", "add", "--name", "John Smith", "--phone", "555 987 6543", "--category", "work")
	require.NoError(t, err)
	out, err := runCLIOK(t, path, "contacts", "add", "--name", "Jane Doe", "--phone", "5551234567", "--category", "family")
	require.NoError(t, err)
	require.Contains(t, out, "(555) 123-4567")

	_, errOut, err := runCLI(t, fileCLI(t, path), "--storage", "file", "contacts", "add", "--name", "X", "--phone", "555-12")
	require.Error(t, err)
	require.Contains(t, errOut, "Please enter a valid phone number")

	out, err = runCLIOK(t, path, "contacts", "list", "-q", "jan")
	require.NoError(t, err)
	require.Contains(t, out, "Jane Doe")
	require.NotContains(t, out, "John Smith")

	var jane models.Contact
	for _, c := range loadFile[models.Contact](t, path, storage.ContactsKey) {
		if c.Name == "Jane Doe" {
			jane = c
		}
	}
	require.NotEmpty(t, jane.ID)

	out, err = runCLIOK(t, path, "contacts", "call", jane.ID)
	require.NoError(t, err)
	require.Equal(t, "tel:5551234567\n", out)

	for _, c := range loadFile[models.Contact](t, path, storage.ContactsKey) {
		if c.ID == jane.ID {
			require.Equal(t, 1, c.CallCount)
			require.NotNil(t, c.LastContacted)
		}
	}

	out, err = runCLIOK(t, path, "contacts", "delete", "-y", jane.ID)
	require.NoError(t, err)
	require.Contains(t, out, "Contact deleted")
	require.Len(t, loadFile[models.Contact](t, path, storage.ContactsKey), 1)
}

func runCLIOK(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLI(t, fileCLI(t, path), append([]string{"--storage", "file"}, args...)...)
	return out, err
}
