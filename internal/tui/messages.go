package tui

import (
	"github.com/jask/chatwidget/internal/attachment"
	"github.com/jask/chatwidget/internal/client"
)

type replyMsg struct {
	seq   uint64
	reply string
}

type replyFailedMsg struct {
	seq uint64
	err error
}

type fileInspectedMsg struct {
	file attachment.File
}

type analyzeDoneMsg struct {
	file   string
	result client.AnalyzeResult
	err    error
}

type statusMsg string

type errMsg struct{ error }
