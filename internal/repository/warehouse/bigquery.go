package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	bigqueryapi "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kutoka/fairoils-bi/internal/config"
	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

const queryTimeoutMs = 30000

// BigQueryRepository implements Repository on BigQuery tables through the
// REST API.
type BigQueryRepository struct {
	service   *bigqueryapi.Service
	projectID string
	dataset   string
	location  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewBigQueryRepository builds a BigQuery backed repository instance.
func NewBigQueryRepository(ctx context.Context, cfg config.BigQueryConfig, logger *zap.Logger) (*BigQueryRepository, error) {
	opts := []option.ClientOption{option.WithScopes(bigqueryapi.BigqueryScope)}
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	service, err := bigqueryapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bigquery client: %w", err)
	}

	return newBigQueryRepository(service, cfg, logger), nil
}

func newBigQueryRepository(service *bigqueryapi.Service, cfg config.BigQueryConfig, logger *zap.Logger) *BigQueryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BigQueryRepository{
		service:   service,
		projectID: cfg.ProjectID,
		dataset:   cfg.Dataset,
		location:  cfg.Location,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *BigQueryRepository) ListFactories(ctx context.Context) ([]models.Factory, error) {
	rows, err := r.selectAll(ctx, TableFactories)
	if err != nil {
		return nil, err
	}
	out := make([]models.Factory, 0, len(rows))
	for _, row := range rows {
		out = append(out, decodeFactory(row))
	}
	return out, nil
}

func (r *BigQueryRepository) ListProductionRecords(ctx context.Context) ([]models.ProductionRecord, error) {
	rows, err := r.selectAll(ctx, TableProductionData)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProductionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, decodeProductionRecord(row))
	}
	return out, nil
}

func (r *BigQueryRepository) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	rows, err := r.selectAll(ctx, TablePurchaseOrders)
	if err != nil {
		return nil, err
	}
	out := make([]models.PurchaseOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, decodePurchaseOrder(row))
	}
	return out, nil
}

func (r *BigQueryRepository) ListSalesOrders(ctx context.Context) ([]models.SalesOrder, error) {
	rows, err := r.selectAll(ctx, TableSalesOrders)
	if err != nil {
		return nil, err
	}
	out := make([]models.SalesOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, decodeSalesOrder(row))
	}
	return out, nil
}

func (r *BigQueryRepository) InsertFactory(ctx context.Context, factory models.Factory) error {
	return r.insert(ctx, TableFactories, factory.ID, encodeFactory(factory))
}

func (r *BigQueryRepository) InsertProductionRecord(ctx context.Context, record models.ProductionRecord) error {
	return r.insert(ctx, TableProductionData, record.ID, encodeProductionRecord(record, r.now()))
}

func (r *BigQueryRepository) InsertPurchaseOrder(ctx context.Context, order models.PurchaseOrder) error {
	return r.insert(ctx, TablePurchaseOrders, order.ID, encodePurchaseOrder(order, r.now()))
}

func (r *BigQueryRepository) InsertSalesOrder(ctx context.Context, order models.SalesOrder) error {
	return r.insert(ctx, TableSalesOrders, order.ID, encodeSalesOrder(order, r.now()))
}

func (r *BigQueryRepository) UpdateProductionActuals(ctx context.Context, id string, actualQty, actualRecoveryRate float64) (models.ProductionRecord, error) {
	stmt := fmt.Sprintf("UPDATE %s SET actual_qty = @actual_qty, actual_recovery_rate = @actual_recovery_rate WHERE id = @id", r.table(TableProductionData))

	result, err := r.query(ctx, stmt,
		floatParam("actual_qty", actualQty),
		floatParam("actual_recovery_rate", actualRecoveryRate),
		stringParam("id", id),
	)
	if isStreamingBufferError(err) {
		return models.ProductionRecord{}, fmt.Errorf("production record %s: %w: %v", id, ErrRecordBusy, err)
	}
	if err != nil {
		return models.ProductionRecord{}, err
	}
	if result.affected == 0 {
		return models.ProductionRecord{}, fmt.Errorf("production record %s: %w", id, ErrNotFound)
	}

	found, err := r.query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE id = @id LIMIT 1", r.table(TableProductionData)), stringParam("id", id))
	if err != nil {
		return models.ProductionRecord{}, err
	}
	if len(found.rows) == 0 {
		return models.ProductionRecord{}, fmt.Errorf("production record %s: %w", id, ErrNotFound)
	}

	r.logger.Info("production actuals recorded", zap.String("id", id), zap.Int64("rows", result.affected))
	return decodeProductionRecord(found.rows[0]), nil
}

// BigQuery refuses DML on rows inserted through insertAll until the
// streaming buffer is flushed, which can take up to 90 minutes.
func isStreamingBufferError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return strings.Contains(strings.ToLower(gerr.Message), "streaming buffer")
}

func (r *BigQueryRepository) table(name string) string {
	return fmt.Sprintf("`%s.%s`", r.dataset, name)
}

func (r *BigQueryRepository) selectAll(ctx context.Context, table string) ([]row, error) {
	result, err := r.query(ctx, "SELECT * FROM "+r.table(table))
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	r.logger.Debug("table loaded", zap.String("table", table), zap.Int("rows", len(result.rows)))
	return result.rows, nil
}

type queryResult struct {
	rows     []row
	affected int64
}

// query runs a GoogleSQL statement and follows result pages until the job
// is complete and every row has been read.
func (r *BigQueryRepository) query(ctx context.Context, stmt string, params ...*bigqueryapi.QueryParameter) (queryResult, error) {
	req := &bigqueryapi.QueryRequest{
		Query:           stmt,
		UseLegacySql:    googleapi.Bool(false),
		Location:        r.location,
		TimeoutMs:       queryTimeoutMs,
		QueryParameters: params,
	}
	if len(params) > 0 {
		req.ParameterMode = "NAMED"
	}

	resp, err := r.service.Jobs.Query(r.projectID, req).Context(ctx).Do()
	if err != nil {
		return queryResult{}, fmt.Errorf("run query: %w", err)
	}

	schema := resp.Schema
	raw := resp.Rows
	complete := resp.JobComplete
	token := resp.PageToken
	affected := resp.NumDmlAffectedRows

	for !complete || token != "" {
		if resp.JobReference == nil {
			return queryResult{}, fmt.Errorf("query incomplete without job reference")
		}

		call := r.service.Jobs.GetQueryResults(r.projectID, resp.JobReference.JobId).
			TimeoutMs(queryTimeoutMs).
			Context(ctx)
		if resp.JobReference.Location != "" {
			call = call.Location(resp.JobReference.Location)
		}
		if token != "" {
			call = call.PageToken(token)
		}

		page, err := call.Do()
		if err != nil {
			return queryResult{}, fmt.Errorf("fetch query results: %w", err)
		}
		if page.Schema != nil {
			schema = page.Schema
		}
		raw = append(raw, page.Rows...)
		complete = page.JobComplete
		token = page.PageToken
		if page.NumDmlAffectedRows > affected {
			affected = page.NumDmlAffectedRows
		}
	}

	return queryResult{rows: decodeRows(schema, raw), affected: affected}, nil
}

func (r *BigQueryRepository) insert(ctx context.Context, table, id string, values map[string]bigqueryapi.JsonValue) error {
	req := &bigqueryapi.TableDataInsertAllRequest{
		Rows: []*bigqueryapi.TableDataInsertAllRequestRows{{InsertId: id, Json: values}},
	}

	resp, err := r.service.Tabledata.InsertAll(r.projectID, r.dataset, table, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	if len(resp.InsertErrors) > 0 {
		var msgs []string
		for _, insertErr := range resp.InsertErrors {
			for _, e := range insertErr.Errors {
				msgs = append(msgs, e.Message)
			}
		}
		return fmt.Errorf("insert into %s rejected: %s", table, strings.Join(msgs, "; "))
	}

	r.logger.Debug("row inserted", zap.String("table", table), zap.String("id", id))
	return nil
}

func stringParam(name, value string) *bigqueryapi.QueryParameter {
	return &bigqueryapi.QueryParameter{
		Name:           name,
		ParameterType:  &bigqueryapi.QueryParameterType{Type: "STRING"},
		ParameterValue: &bigqueryapi.QueryParameterValue{Value: value},
	}
}

func floatParam(name string, value float64) *bigqueryapi.QueryParameter {
	return &bigqueryapi.QueryParameter{
		Name:           name,
		ParameterType:  &bigqueryapi.QueryParameterType{Type: "FLOAT64"},
		ParameterValue: &bigqueryapi.QueryParameterValue{Value: strconv.FormatFloat(value, 'g', -1, 64)},
	}
}
