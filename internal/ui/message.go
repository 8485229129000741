package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionLoaded MsgKind = iota
	MsgCandidatesFetched
	MsgPreviewReady
	MsgSwapComplete
)

type sessionLoaded struct {
	session *models.Session
	err     error
}

type candidatesFetched struct {
	shapes []models.TemplateShape
	err    error
}

type swapDone struct {
	result *tasks.SwapResult
	err    error
}

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(session *models.Session, err error) Msg {
	return Msg{kind: MsgSessionLoaded, data: sessionLoaded{session, err}}
}

// candidatesFetchedMsg is the constructor for [MsgCandidatesFetched]
func candidatesFetchedMsg(shapes []models.TemplateShape, err error) Msg {
	return Msg{kind: MsgCandidatesFetched, data: candidatesFetched{shapes, err}}
}

// previewReadyMsg is the constructor for [MsgPreviewReady]
func previewReadyMsg(result *tasks.SwapResult, err error) Msg {
	return Msg{kind: MsgPreviewReady, data: swapDone{result, err}}
}

// swapCompleteMsg is the constructor for [MsgSwapComplete]
func swapCompleteMsg(result *tasks.SwapResult, err error) Msg {
	return Msg{kind: MsgSwapComplete, data: swapDone{result, err}}
}
