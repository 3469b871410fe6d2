package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"taxreport/internal/config"
	"taxreport/internal/model"
	"taxreport/internal/pipeline"
	"taxreport/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const exportCSV = `Order ID,Created Time,SKU ID,Product Name,Variation,SKU Unit Original Price,Quantity,SKU Seller Discount,Shipping Fee After Discount,Order Status
O1,02/01/2024 10:00:00,S1,Widget,Red,100,2,10,50,Completed
O1,02/01/2024 10:00:00,S2,Widget,Blue,50,1,0,50,Completed
O2,01/01/2024 09:00:00,S3,Gadget,,200,1,0,30,Completed
`

type fakeSender struct {
	to         string
	subject    string
	filename   string
	attachment []byte
	err        error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string, attachment []byte, filename string) error {
	f.to = to
	f.subject = subject
	f.filename = filename
	f.attachment = attachment
	return f.err
}

func newTestService(t *testing.T) (ReportService, *fakeSender, *gorm.DB) {
	t.Helper()

	// Named in-memory DB so pooled connections share state while tests stay isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ReportRun{}))

	sender := &fakeSender{}
	svc := NewReportService(config.DefaultReport(), repository.NewReportRunRepository(db), sender, nil)
	return svc, sender, db
}

func TestGenerateProducesReportAndRecordsRun(t *testing.T) {
	svc, _, db := newTestService(t)

	result, err := svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
		Seed:       "INV00001",
		SourceName: "orders.csv",
		HeaderRow:  -1,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.RowCount)
	assert.Equal(t, 2, result.Summary.OrderCount)
	assert.Equal(t, "INV00001", result.Summary.FirstInvoice)
	assert.Equal(t, "INV00002", result.Summary.LastInvoice)
	assert.Equal(t, "Tax_Report_INV00001.xlsx", result.Summary.Filename)
	require.NotEmpty(t, result.Preview)
	assert.Equal(t, "O2", result.Preview[0].OrderID, "earliest order first")

	var runs []model.ReportRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunSuccess, runs[0].Status)
	assert.Equal(t, "orders.csv", runs[0].SourceFile)
	assert.Equal(t, "INV00001", runs[0].FirstInvoice)
}

func TestGenerateBadSeedRecordsFailure(t *testing.T) {
	svc, _, db := newTestService(t)

	_, err := svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
		Seed:       "no-digits",
		SourceName: "orders.csv",
		HeaderRow:  -1,
	})
	assert.ErrorIs(t, err, pipeline.ErrInvalidSeed)

	var runs []model.ReportRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)

	// A failed run must not leave a downloadable report behind.
	_, _, err = svc.Download()
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestGenerateMissingColumns(t *testing.T) {
	svc, _, _ := newTestService(t)

	csv := "Order ID,Quantity\nO1,2\n"
	_, err := svc.Generate(context.Background(), strings.NewReader(csv), GenerateOptions{
		Seed:       "INV00001",
		SourceName: "orders.csv",
		HeaderRow:  -1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestDownloadAndLatestFromCache(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Download()
	assert.ErrorIs(t, err, ErrNoReport)
	_, err = svc.Latest()
	assert.ErrorIs(t, err, ErrNoReport)

	_, err = svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
		Seed: "INV00001", SourceName: "orders.csv", HeaderRow: -1,
	})
	require.NoError(t, err)

	filename, data, err := svc.Download()
	require.NoError(t, err)
	assert.Equal(t, "Tax_Report_INV00001.xlsx", filename)
	assert.NotEmpty(t, data)

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, "INV00001", latest.Summary.FirstInvoice)
}

func TestCacheReplacedOnRerun(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
		Seed: "INV00001", SourceName: "orders.csv", HeaderRow: -1,
	})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
		Seed: "INV00050", SourceName: "orders.csv", HeaderRow: -1,
	})
	require.NoError(t, err)

	filename, _, err := svc.Download()
	require.NoError(t, err)
	assert.Equal(t, "Tax_Report_INV00050.xlsx", filename)
}

func TestEmailSendsCachedReport(t *testing.T) {
	svc, sender, _ := newTestService(t)

	err := svc.Email(context.Background(), EmailReportRequest{To: "acct@example.com"})
	assert.ErrorIs(t, err, ErrNoReport)

	_, err = svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
		Seed: "INV00001", SourceName: "orders.csv", HeaderRow: -1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Email(context.Background(), EmailReportRequest{To: "acct@example.com"}))
	assert.Equal(t, "acct@example.com", sender.to)
	assert.Equal(t, "Tax_Report_INV00001.xlsx", sender.filename)
	assert.NotEmpty(t, sender.attachment)
	assert.Contains(t, sender.subject, "INV00001")
}

func TestPreviewRawTable(t *testing.T) {
	svc, _, _ := newTestService(t)

	preview, err := svc.Preview(strings.NewReader(exportCSV), "orders.csv", -1)
	require.NoError(t, err)

	assert.Equal(t, "Order ID", preview.Headers[0])
	assert.Len(t, preview.Rows, 3)
	assert.Equal(t, 3, preview.Total)
}

func TestListRuns(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, seed := range []string{"INV00001", "INV00100"} {
		_, err := svc.Generate(context.Background(), strings.NewReader(exportCSV), GenerateOptions{
			Seed: seed, SourceName: "orders.csv", HeaderRow: -1,
		})
		require.NoError(t, err)
	}

	runs, total, err := svc.ListRuns(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, runs, 2)
}
