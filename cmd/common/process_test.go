package common_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/sdp-connect/cmd/common"
	"fjacquet/sdp-connect/internal/config"
	"fjacquet/sdp-connect/internal/container"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/reconcile"
	"fjacquet/sdp-connect/internal/registryerror"
	"fjacquet/sdp-connect/internal/sdp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// MockGateway implements sdp.Gateway for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CardInfo(ctx context.Context, req *sdp.CardInfoRequest) (*sdp.CardInfoResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*sdp.CardInfoResponse)
	return resp, args.Error(1)
}

func (m *MockGateway) CardPayment(ctx context.Context, req *sdp.CardPaymentRequest) (*sdp.CardPaymentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*sdp.CardPaymentResponse)
	return resp, args.Error(1)
}

func testConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Paths.Log = filepath.Join(dir, "log")
	cfg.Paths.Registry = filepath.Join(dir, "in")
	cfg.Paths.ErrorRegistry = filepath.Join(dir, "out")
	cfg.Gateway.URL = "http://localhost:1/sdp"
	cfg.Gateway.Namespace = "urn:sdp"
	cfg.Gateway.TimeoutSeconds = 5
	cfg.Registry.Encoding = "windows-1251"
	cfg.Registry.Extension = ".txt"
	cfg.Registry.ErrorMarker = true
	cfg.Agent = config.AgentConfig{AgentID: "1", SalepointID: "2", RegionID: 99, DeviceID: "99999", ProtocolVersion: "0"}
	return cfg
}

func writeRegistry(t *testing.T, dir, name string) string {
	t.Helper()
	line := strings.Join([]string{
		"14-03-2017", "09-05-30", "0042", "007", "OP-1", "40817810099991234567",
		"Сидоров С.С.", "RUB", "", "100.00", "", "", "101,00", "100,00", "1,00",
	}, ";")
	data, err := charmap.Windows1251.NewEncoder().String(line + "\r\n=\r\n1;101,00;100,00;1,00;;\r\n")
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(dir, 0750))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}

func TestResolveRegistry(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	inDir := writeRegistry(t, cfg.Paths.Registry, "reestr.txt")

	assert.Equal(t, inDir, common.ResolveRegistry(cfg, "reestr.txt"))
	assert.Equal(t, inDir, common.ResolveRegistry(cfg, inDir))
}

func TestProcessRegistry_Accepted(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	path := writeRegistry(t, cfg.Paths.Registry, "reestr.txt")

	gateway := &MockGateway{}
	gateway.On("CardInfo", mock.Anything, mock.MatchedBy(func(req *sdp.CardInfoRequest) bool {
		return req.SysNum == 1781009999123456 && req.AgentID == "1"
	})).Return(&sdp.CardInfoResponse{
		SessionID: "S-1",
		Tariff:    &sdp.Tariff{ID: "3", MinSum: 100, MaxSum: 1000000},
	}, nil)
	gateway.On("CardPayment", mock.Anything, mock.MatchedBy(func(req *sdp.CardPaymentRequest) bool {
		return req.SessionID == "S-1" && req.PaymentSum == 10000 && req.PaymentInfo == "0042_007"
	})).Return(&sdp.CardPaymentResponse{Receipt: "R-1"}, nil)

	run, err := common.ProcessRegistry(context.Background(), cfg, path, container.WithGateway(gateway))

	require.NoError(t, err)
	require.NotNil(t, run)
	assert.True(t, run.Result.Success())
	assert.Equal(t, "1 row(s) accepted", common.Summary(run))
	gateway.AssertExpectations(t)

	logs, err := os.ReadDir(cfg.Paths.Log)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, strings.HasPrefix(logs[0].Name(), "reestr_"))
	assert.Equal(t, ".log", filepath.Ext(logs[0].Name()))
}

func TestProcessRegistry_Rejected(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	path := writeRegistry(t, cfg.Paths.Registry, "reestr.txt")

	gateway := &MockGateway{}
	gateway.On("CardInfo", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	run, err := common.ProcessRegistry(context.Background(), cfg, path, container.WithGateway(gateway))

	require.Error(t, err)
	assert.True(t, errors.Is(err, registryerror.ErrBatchRejected))
	require.NotNil(t, run)
	assert.Equal(t, cfg.Paths.ErrorRegistry, filepath.Dir(run.ErrorRegistry))
	assert.Contains(t, common.Summary(run), "1 of 1 row(s) rejected, see ")
	gateway.AssertNotCalled(t, "CardPayment", mock.Anything, mock.Anything)
}

func TestProcessRegistry_MissingSubmissionSettings(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Gateway.URL = ""
	gateway := &MockGateway{}

	run, err := common.ProcessRegistry(context.Background(), cfg, "reestr.txt", container.WithGateway(gateway))

	assert.Nil(t, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway.url")
	gateway.AssertNotCalled(t, "CardInfo", mock.Anything, mock.Anything)
}

func TestCheckRegistry(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	path := writeRegistry(t, cfg.Paths.Registry, "reestr.txt")

	reg, err := common.CheckRegistry(cfg, path, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Len(t, reg.Rows, 1)

	_, err = common.CheckRegistry(cfg, filepath.Join(dir, "missing.txt"), logging.NewMockLogger())
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "registry was not submitted", common.Summary(nil))

	run := &reconcile.Run{Result: &reconcile.Result{}}
	assert.Equal(t, "0 row(s) accepted", common.Summary(run))
}
