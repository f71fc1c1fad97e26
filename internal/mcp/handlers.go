package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cpi-console/internal/delivery"
	"cpi-console/internal/dispatch"
	"cpi-console/internal/period"
	"cpi-console/internal/render"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func selectionFrom(months int, start, end string) (period.Selection, error) {
	if start == "" && end == "" {
		if months == 0 {
			months = period.DefaultMonths
		}
		return period.Months(months), nil
	}
	if start == "" || end == "" {
		return period.Selection{}, fmt.Errorf("start_date and end_date must be given together")
	}
	s, err := period.ParseYearMonth(start)
	if err != nil {
		return period.Selection{}, fmt.Errorf("invalid start_date: %w", err)
	}
	e, err := period.ParseYearMonth(end)
	if err != nil {
		return period.Selection{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return period.Between(s, e), nil
}

// outcome turns a dispatch result into a tool error when it did not succeed.
func outcome(res dispatch.Result, err error) error {
	switch {
	case errors.Is(err, dispatch.ErrBusy):
		return fmt.Errorf("%s is already running; wait for it to finish and check 'get_operation_states'", res.Action)
	case errors.Is(err, dispatch.ErrDisabled):
		return fmt.Errorf("%s is not available yet; run 'analyze_statistics' successfully first", res.Action)
	case err != nil:
		return err
	case res.Failed():
		return errors.New(res.Message)
	}
	return nil
}

func textResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
	}, nil, nil
}

type cardView struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

func cardViews(cards []render.Card) []cardView {
	out := make([]cardView, len(cards))
	for i, c := range cards {
		lines := make([]string, len(c.Lines))
		for j, l := range c.Lines {
			lines[j] = l.Text
		}
		out[i] = cardView{Key: c.Key, Title: c.Title, Lines: lines}
	}
	return out
}

func receiptView(r *delivery.Receipt) map[string]interface{} {
	if r == nil {
		return nil
	}
	return map[string]interface{}{
		"name":         r.Name,
		"location":     r.Location,
		"bytes":        r.Size,
		"content_type": r.ContentType,
	}
}

func (s *Server) handleAnalyze(ctx context.Context, _ *mcp.CallToolRequest, args AnalyzeArgs) (*mcp.CallToolResult, any, error) {
	var (
		res dispatch.Result
		err error
	)
	if args.Legacy {
		res, err = s.ctl.RunLegacyAnalysis(ctx)
	} else {
		sel, serr := selectionFrom(args.Months, args.StartDate, args.EndDate)
		if serr != nil {
			return nil, nil, serr
		}
		res, err = s.ctl.RunAnalysis(ctx, sel)
	}
	if err := outcome(res, err); err != nil {
		return nil, nil, err
	}

	next := "get_press_release"
	if args.Legacy {
		next = "get_press_release with legacy=true"
	}
	return textResult(map[string]interface{}{
		"cards": cardViews(res.Cards),
		"_guidance": []string{
			"Cards are listed in the fixed display order; statistics the service did not return are omitted.",
			fmt.Sprintf("Next Step: call '%s' to generate the press release for this period.", next),
		},
	})
}

func (s *Server) handlePressRelease(ctx context.Context, _ *mcp.CallToolRequest, args PressReleaseArgs) (*mcp.CallToolResult, any, error) {
	if args.Legacy {
		res, err := s.ctl.DownloadLegacyReport(ctx)
		if err := outcome(res, err); err != nil {
			return nil, nil, err
		}
		return textResult(map[string]interface{}{"file": receiptView(res.Receipt)})
	}

	sel, err := selectionFrom(args.Months, args.StartDate, args.EndDate)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.ctl.DownloadReport(ctx, sel)
	if err := outcome(res, err); err != nil {
		return nil, nil, err
	}

	out := map[string]interface{}{"html": res.Document.HTML}
	if page := s.savePage("press-release", *res.Document); page != "" {
		out["page"] = page
	}
	return textResult(out)
}

func (s *Server) handleDownloadData(ctx context.Context, _ *mcp.CallToolRequest, args DownloadDataArgs) (*mcp.CallToolResult, any, error) {
	sel, err := selectionFrom(args.Months, args.StartDate, args.EndDate)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.ctl.DownloadData(ctx, sel)
	if err := outcome(res, err); err != nil {
		return nil, nil, err
	}
	return textResult(map[string]interface{}{"file": receiptView(res.Receipt)})
}

func (s *Server) handleConvert(ctx context.Context, _ *mcp.CallToolRequest, args FileArgs) (*mcp.CallToolResult, any, error) {
	f, err := openArg(args.Path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	res, err := s.ctl.ConvertFile(ctx, filepath.Base(args.Path), f)
	if err := outcome(res, err); err != nil {
		return nil, nil, err
	}
	return textResult(map[string]interface{}{
		"message": res.Message,
		"file":    receiptView(res.Receipt),
	})
}

func (s *Server) handleUpload(ctx context.Context, _ *mcp.CallToolRequest, args FileArgs) (*mcp.CallToolResult, any, error) {
	f, err := openArg(args.Path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	res, err := s.ctl.UploadSpreadsheet(ctx, filepath.Base(args.Path), f)
	if err := outcome(res, err); err != nil {
		return nil, nil, err
	}

	insights := make([]map[string]interface{}, 0, len(res.Document.Insights))
	for _, in := range res.Document.Insights {
		item := map[string]interface{}{
			"index":       in.Index,
			"title":       in.Title,
			"description": in.Description,
			"type":        in.Type,
		}
		if in.Chart != "" {
			item["chart"] = in.Chart
		}
		insights = append(insights, item)
	}

	out := map[string]interface{}{
		"insights":      insights,
		"press_release": res.Document.Text,
	}
	if page := s.savePage("upload-report", *res.Document); page != "" {
		out["page"] = page
	}
	return textResult(out)
}

func (s *Server) handleStates(_ context.Context, _ *mcp.CallToolRequest, _ StatesArgs) (*mcp.CallToolResult, any, error) {
	return textResult(map[string]interface{}{"actions": s.ctl.Snapshot()})
}

func openArg(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("파일을 선택해주세요.")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// savePage writes doc as a standalone page when a page directory is set. A
// failure is logged and does not fail the tool call.
func (s *Server) savePage(name string, doc render.Document) string {
	if s.pageDir == "" {
		return ""
	}
	path, err := render.SavePage(s.pageDir, name, doc)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("Failed to save page")
		return ""
	}
	if s.opener != nil {
		if err := s.opener(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open page")
		}
	}
	return path
}
