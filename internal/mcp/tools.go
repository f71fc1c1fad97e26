package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Period arguments select the analysis period. Either months, or start_date
// and end_date, are expected; with neither the default of 36 months applies.

type AnalyzeArgs struct {
	Months    int    `json:"months,omitempty" jsonschema:"Number of most recent months to analyze"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Range start as YYYY-MM"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Range end as YYYY-MM"`
	Legacy    bool   `json:"legacy,omitempty" jsonschema:"Use the legacy endpoint where the service picks the period"`
}

type PressReleaseArgs struct {
	Months    int    `json:"months,omitempty" jsonschema:"Number of most recent months, used when no analysis period is cached"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Range start as YYYY-MM"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Range end as YYYY-MM"`
	Legacy    bool   `json:"legacy,omitempty" jsonschema:"Download the legacy DOCX press release instead of the HTML one"`
}

type DownloadDataArgs struct {
	Months    int    `json:"months,omitempty" jsonschema:"Number of most recent months to export"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Range start as YYYY-MM"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Range end as YYYY-MM"`
}

type FileArgs struct {
	Path string `json:"path" jsonschema:"Local path of the file to send"`
}

type StatesArgs struct{}

func schemaFor[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(err)
	}
	return schema
}

func (s *Server) registerTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name: "analyze_statistics",
		Description: "Request consumer price index statistics for a period and return them as ordered cards. \n\n" +
			"The statistics are computed by the remote service; do not recompute or extrapolate them yourself. " +
			"A successful analysis enables 'get_press_release' for the same period.",
		InputSchema: schemaFor[AnalyzeArgs](),
	}, s.handleAnalyze)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "get_press_release",
		Description: "Generate the press release for the period of the last successful analysis. \n\n" +
			"PREREQUISITE: 'analyze_statistics' must have succeeded first. The period arguments are only used when no analysis period is cached.",
		InputSchema: schemaFor[PressReleaseArgs](),
	}, s.handlePressRelease)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "download_data",
		Description: "Export the index data of a period as a spreadsheet into the download directory.",
		InputSchema: schemaFor[DownloadDataArgs](),
	}, s.handleDownloadData)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "convert_pdf",
		Description: "Convert a local PDF document to DOCX using the remote service. The result is saved next to other downloads.",
		InputSchema: schemaFor[FileArgs](),
	}, s.handleConvert)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "upload_spreadsheet",
		Description: "Upload a local spreadsheet (xlsx, xls, csv) for analysis. Returns numbered insights with Mermaid charts and a generated press release.",
		InputSchema: schemaFor[FileArgs](),
	}, s.handleUpload)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_operation_states",
		Description: "Show the state of every action (idle, loading, success, error) and whether it can be triggered now.",
		InputSchema: schemaFor[StatesArgs](),
	}, s.handleStates)
}
