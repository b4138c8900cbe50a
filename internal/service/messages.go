package service

import "errors"

// Messages shown inline on the pages
const (
	MsgEmptyText     = "Please enter some text to analyze"
	MsgTextTooShort  = "Text must be at least 3 characters long"
	MsgTextTooLong   = "Text must be less than 1000 characters"
	MsgPredictFailed = "Failed to analyze text. Please try again."

	MsgRefreshReady   = "Connection active — Metrics updated"
	MsgRefreshLoading = "Backend connected — Model loading..."
	MsgRefreshFailed  = "Backend unavailable. Retrying..."

	MsgNoFile          = "Please select a file first"
	MsgNoRemotePath    = "Please provide a file URL or server path"
	MsgCSVParseFailed  = "Failed to parse CSV file. Please ensure it's properly formatted."
	MsgUploadNotFound  = "Upload endpoint not available. Please contact administrator."
	MsgUploadFailed    = "Failed to process file. Please try again."
	MsgRemoteFailed    = "Failed to process batch prediction. If using a URL, ensure it points to a raw CSV."
	MsgDownloadFailed  = "Failed to download results file"
	MsgDemoMetrics     = "Backend not available. Displaying demo data."
	MsgAnotherInFlight = "A request is already being processed. Please wait."
)

var (
	// ErrBusy rejects a submission while the same flow is still in flight
	ErrBusy = errors.New("request already in progress")
	// ErrStale marks a response that arrived after the flow was reset
	ErrStale = errors.New("response discarded after reset")
	// ErrResultNotFound is returned when a download names an unknown result
	ErrResultNotFound = errors.New("batch result not found")
)
