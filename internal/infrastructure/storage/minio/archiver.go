package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

var (
	ErrReportNotFound = errors.New(errors.ErrCodeNotFound, "report not found")
	ErrArchiveFailed  = errors.New(errors.ErrCodeReportArchiveFailed, "report archive failed")
)

const reportContentType = "application/json"

// ArchiveInfo describes one stored report object.
type ArchiveInfo struct {
	Bucket     string
	ObjectKey  string
	ETag       string
	Size       int64
	ArchivedAt time.Time
}

// ReportObject is one listing entry for a business's archived reports.
type ReportObject struct {
	RunID        string
	ObjectKey    string
	Size         int64
	LastModified time.Time
}

// ReportArchiver stores the full JSON record of each diagnosis run.  The
// archive is the audit copy: it preserves exactly what was returned to the
// business, independent of later rule revisions.
type ReportArchiver struct {
	client *Client
	logger logging.Logger
	now    func() time.Time
}

// NewReportArchiver builds a ReportArchiver over the bound bucket.
func NewReportArchiver(client *Client, log logging.Logger) *ReportArchiver {
	return &ReportArchiver{
		client: client,
		logger: log.Named("report_archiver"),
		now:    time.Now,
	}
}

// ReportKey returns the object key for one run's report.
func ReportKey(businessID, runID string) string {
	return fmt.Sprintf("reports/%s/%s.json", businessID, runID)
}

// ArchiveRun stores the run record as a JSON object keyed by business and run.
func (a *ReportArchiver) ArchiveRun(ctx context.Context, run *diagnostics.Run) (*ArchiveInfo, error) {
	if run == nil || run.ID == "" || run.BusinessID == "" {
		return nil, errors.InvalidParam("run with ID and business ID required")
	}
	if run.Output == nil {
		return nil, errors.InvalidParam("run output required")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal run report")
	}

	key := ReportKey(run.BusinessID, run.ID)
	opts := minio.PutObjectOptions{
		ContentType: reportContentType,
		UserMetadata: map[string]string{
			"business-id": run.BusinessID,
			"input-hash":  run.InputHash,
			"health-band": string(run.Output.HealthBand),
		},
	}

	info, err := a.client.API().PutObject(ctx, a.client.Bucket(), key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return nil, ErrArchiveFailed.WithCause(err)
	}

	a.logger.Debug("Report archived",
		logging.String("business_id", run.BusinessID),
		logging.String("run_id", run.ID),
		logging.Int64("size", info.Size),
	)

	return &ArchiveInfo{
		Bucket:     a.client.Bucket(),
		ObjectKey:  key,
		ETag:       info.ETag,
		Size:       info.Size,
		ArchivedAt: a.now().UTC(),
	}, nil
}

// FetchReport loads the archived run record for a business and run ID.
func (a *ReportArchiver) FetchReport(ctx context.Context, businessID, runID string) (*diagnostics.Run, error) {
	key := ReportKey(businessID, runID)

	rc, err := a.client.API().GetObjectReader(ctx, a.client.Bucket(), key)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrReportNotFound.WithDetail(key)
		}
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to fetch report")
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to read report body")
	}

	var run diagnostics.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode report")
	}
	return &run, nil
}

// ReportExists reports whether a run's report has been archived.
func (a *ReportArchiver) ReportExists(ctx context.Context, businessID, runID string) (bool, error) {
	_, err := a.client.API().StatObject(ctx, a.client.Bucket(), ReportKey(businessID, runID), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeExternalService, "failed to stat report")
	}
	return true, nil
}

// ReportURL issues a presigned download URL for an archived report.
func (a *ReportArchiver) ReportURL(ctx context.Context, businessID, runID string, expiry time.Duration) (string, error) {
	exists, err := a.ReportExists(ctx, businessID, runID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrReportNotFound.WithDetail(ReportKey(businessID, runID))
	}
	return a.client.PresignedReportURL(ctx, ReportKey(businessID, runID), expiry)
}

// DeleteReport removes one archived report.
func (a *ReportArchiver) DeleteReport(ctx context.Context, businessID, runID string) error {
	key := ReportKey(businessID, runID)
	if err := a.client.API().RemoveObject(ctx, a.client.Bucket(), key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to delete report")
	}
	return nil
}

// ListReports returns the archived reports for one business, newest first.
func (a *ReportArchiver) ListReports(ctx context.Context, businessID string) ([]ReportObject, error) {
	if businessID == "" {
		return nil, errors.InvalidParam("business ID required")
	}

	prefix := fmt.Sprintf("reports/%s/", businessID)
	ch := a.client.API().ListObjects(ctx, a.client.Bucket(), minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	reports := []ReportObject{}
	for obj := range ch {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeExternalService, "failed to list reports")
		}
		reports = append(reports, ReportObject{
			RunID:        runIDFromKey(obj.Key, prefix),
			ObjectKey:    obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].LastModified.After(reports[j].LastModified)
	})
	return reports, nil
}

func runIDFromKey(key, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".json")
}

//Personal.AI order the ending
