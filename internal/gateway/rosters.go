package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

type CreateRosterRequest struct {
	RosterName string              `json:"ROSTER_NAME"`
	RosterCode string              `json:"ROSTER_CODE"`
	Day        int                 `json:"DAY"`
	ModifiedBy string              `json:"MODIFIED_BY"`
	Status     domain.RosterStatus `json:"STATUS"`
}

type DeleteRosterItem struct {
	RosterHeaderID int64  `json:"ROSTER_HEADER_ID"`
	ModifiedBy     string `json:"MODIFIED_BY"`
	RosterName     string `json:"ROSTER_NAME"`
}

type AddJobRequest struct {
	RosterHeaderID int64  `json:"ROSTER_HEADER_ID"`
	JobTitle       string `json:"JOB_TITLE"`
	JobCode        string `json:"JOB_CODE"`
	ModifiedBy     string `json:"MODIFIED_BY"`
}

type DeletePositionItem struct {
	RosterHeaderID int64  `json:"ROSTER_HEADER_ID"`
	RosterItemID   int64  `json:"ROSTER_ITEM_ID"`
	ModifiedBy     string `json:"MODIFIED_BY"`
}

type MarkStatusRequest struct {
	Status         domain.RosterStatus `json:"STATUS"`
	RosterHeaderID int64               `json:"ROSTER_HEADER_ID"`
	ModifiedBy     string              `json:"MODIFIED_BY"`
}

// RosterDays 是某个排班表的明细行以及它是否处于启用状态
type RosterDays struct {
	Rows   []domain.RosterDayRow
	Active bool
}

func (c *Client) CurrentUser(ctx context.Context) (domain.CurrentUser, error) {
	const path = "currentUser"
	var user domain.CurrentUser
	data, err := c.get(ctx, path, nil)
	if err != nil {
		return user, err
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return user, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return user, nil
}

func (c *Client) FetchRosters(ctx context.Context) ([]domain.RosterHeader, error) {
	const path = rosterManagement + "fetchRoster"
	data, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(path, data)
	if err != nil {
		return nil, err
	}
	if err := expectStatus(path, env, http.StatusOK); err != nil {
		return nil, err
	}
	return decodeArray[domain.RosterHeader](path, "results", env.Results)
}

func (c *Client) CreateRoster(ctx context.Context, req CreateRosterRequest) error {
	return c.sendExpect(ctx, http.MethodPost, rosterManagement+"createRoster", req, http.StatusCreated)
}

func (c *Client) DeleteRosters(ctx context.Context, items []DeleteRosterItem) error {
	return c.sendExpect(ctx, http.MethodDelete, rosterManagement+"deleteRoster", items, http.StatusAccepted)
}

func (c *Client) FetchPositions(ctx context.Context) ([]domain.JobOption, error) {
	const path = rosterManagement + "fetchPositions"
	raw, err := c.fetchResults(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeArray[domain.JobOption](path, "results", raw)
}

func (c *Client) AddJob(ctx context.Context, req AddJobRequest) error {
	return c.sendExpect(ctx, http.MethodPost, rosterManagement+"addDefaultRoster", req, http.StatusCreated)
}

func (c *Client) FetchPlanning(ctx context.Context) ([]domain.PlanningOption, error) {
	const path = rosterManagement + "fetchPlanning"
	raw, err := c.fetchResults(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeArray[domain.PlanningOption](path, "results", raw)
}

func (c *Client) FetchSchedulingJobBase(ctx context.Context) ([]domain.SchedulingStatusItem, error) {
	const path = rosterManagement + "fetchSchedulingJobBase"
	raw, err := c.fetchResults(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeArray[domain.SchedulingStatusItem](path, "results", raw)
}

func (c *Client) FetchRosterDays(ctx context.Context, rosterHeaderID int64) (RosterDays, error) {
	const path = rosterManagement + "fetchRosterDaysStructure"
	query := url.Values{"ROSTER_HEADER_ID": {strconv.FormatInt(rosterHeaderID, 10)}}

	data, err := c.get(ctx, path, query)
	if err != nil {
		return RosterDays{}, err
	}
	env, err := decodeEnvelope(path, data)
	if err != nil {
		return RosterDays{}, err
	}
	if err := expectStatus(path, env, http.StatusOK); err != nil {
		return RosterDays{}, err
	}
	rows, err := decodeArray[domain.RosterDayRow](path, "rows", env.Rows)
	if err != nil {
		return RosterDays{}, err
	}
	return RosterDays{Rows: rows, Active: domain.Truthy(env.RosterStatus)}, nil
}

func (c *Client) DeletePositions(ctx context.Context, items []DeletePositionItem) error {
	return c.sendExpect(ctx, http.MethodDelete, rosterManagement+"deletePosition", items, http.StatusAccepted)
}

func (c *Client) MarkRosterStatus(ctx context.Context, req MarkStatusRequest) error {
	return c.sendExpect(ctx, http.MethodPut, rosterManagement+"markRosterStatus", req, http.StatusAccepted)
}

func (c *Client) SaveData(ctx context.Context, rows []domain.RosterDayRow) error {
	return c.sendExpect(ctx, http.MethodPost, rosterManagement+"saveData", rows, http.StatusCreated)
}

func (c *Client) DownloadData(ctx context.Context, rosterID int64) ([]domain.Record, error) {
	const path = rosterManagement + "downloadData"
	query := url.Values{"rosterId": {strconv.FormatInt(rosterID, 10)}}
	raw, err := c.fetchResults(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decodeArray[domain.Record](path, "results", raw)
}
