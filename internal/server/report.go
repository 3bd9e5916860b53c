package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/session"
	"github.com/joseph-ayodele/sales-tracker/internal/utils"
)

// ReportServer exposes session operations over gRPC.
type ReportServer struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewReportServer(sessions *session.Manager, logger *slog.Logger) *ReportServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportServer{sessions: sessions, logger: logger}
}

var _ ReportService = (*ReportServer)(nil)

func (s *ReportServer) CreateSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{
		"session_id": sess.ID,
		"state":      string(sess.State()),
	})
}

func (s *ReportServer) CloseSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Close(id); err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{})
}

func (s *ReportServer) UploadDataset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	filename := strings.TrimSpace(field(req, "filename"))
	encoded := field(req, "content")

	v := common.NewValidator()
	v.Field("filename", filename, common.Required)
	v.Field("content", encoded, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, common.InvalidArgumentError("content must be base64")
	}

	res, err := sess.Upload(ctx, filename, content)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{
		"dataset_id":   res.DatasetID,
		"filename":     res.Filename,
		"deduplicated": res.Deduplicated,
		"rows":         float64(res.Rows),
		"transactions": float64(res.Transactions),
		"summaries":    float64(res.Summaries),
		"provinces":    utils.ToPBStrings(res.Provinces),
		"state":        string(sess.State()),
	})
}

func (s *ReportServer) ListProvinces(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	provs, err := sess.Provinces()
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{"provinces": utils.ToPBStrings(provs)})
}

func (s *ReportServer) SelectProvince(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	province := field(req, "province")
	if strings.TrimSpace(province) == "" {
		return nil, common.InvalidArgumentError("province is required")
	}
	ranking, err := sess.SelectProvince(province)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{
		"province":  province,
		"customers": utils.ToPBSummaries(ranking),
		"state":     string(sess.State()),
	})
}

func (s *ReportServer) SelectCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	customerID := field(req, "customer_id")
	if strings.TrimSpace(customerID) == "" {
		return nil, common.InvalidArgumentError("customer_id is required")
	}
	view, err := sess.SelectCustomer(ctx, customerID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{
		"card":     utils.ToPBCard(view.Card),
		"history":  utils.ToPBTransactions(view.History),
		"contacts": utils.ToPBContacts(view.Contacts),
		"state":    string(sess.State()),
	})
}

func (s *ReportServer) AddContact(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	cs, err := sess.AddContact(ctx, field(req, "name"), field(req, "email"), field(req, "phone"))
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{"contacts": utils.ToPBContacts(cs)})
}

func (s *ReportServer) ExportReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	xlsx, err := sess.Export(ctx)
	if err != nil {
		common.LoggerFrom(ctx, s.logger).Error("export.xlsx.failed", "err", err)
		return nil, s.fail(ctx, err)
	}
	return s.reply(map[string]any{
		"filename": "report.xlsx",
		"content":  base64.StdEncoding.EncodeToString(xlsx),
	})
}

func (s *ReportServer) lookup(ctx context.Context, req *structpb.Struct) (*session.Session, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return sess, nil
}

func (s *ReportServer) fail(ctx context.Context, err error) error {
	return toStatus(err, common.LoggerFrom(ctx, s.logger))
}

func (s *ReportServer) reply(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		s.logger.Error("server.reply.encode_failed", "err", err)
		return nil, common.InternalErrorf("encode reply: %v", err)
	}
	return out, nil
}

func sessionID(req *structpb.Struct) (string, error) {
	id := strings.TrimSpace(field(req, "session_id"))
	v := common.NewValidator()
	v.Field("session_id", id, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return "", err
	}
	return id, nil
}

func field(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[name].GetStringValue()
}
