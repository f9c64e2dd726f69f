package tui

import (
	"github.com/akopyan/override-keeper/models"
)

type loginResultMsg struct {
	err error
}

type dashboardLoadedMsg struct {
	current models.CurrentPasswordResponse
	missing bool
	err     error
}

type statsLoadedMsg struct {
	stats models.UsageStats
	err   error
}

type rotatedMsg struct {
	issue models.IssueResponse
	err   error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
