package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outagedesk/outage-server/models"
)

func TestBuildJobsWorkbook(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	jobs := []models.OutageJob{
		{ID: "a", OutageDate: "2026-10-20", EquipmentCode: "KKA-01", NakhonStatus: models.Ptr(models.NakhonNotified)},
		{ID: "b", OutageDate: "not-a-date", EquipmentCode: "KKA-02"},
	}

	f, err := buildJobsWorkbook(jobs, now)
	require.NoError(t, err)
	defer f.Close()

	style, err := f.GetCellStyle(exportSheet, "A1")
	require.NoError(t, err)
	assert.NotZero(t, style, "header row is styled")

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "RED", rows[1][5])
	// Unparseable dates leave the urgency cells blank.
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "not-a-date", rows[2][2])
}
