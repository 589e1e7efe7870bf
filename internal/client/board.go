package client

import (
	"context"
	"fmt"
	"net/http"

	"kanband/internal/models"
)

// LoadBoard fetches a project's columns and cards and primes the
// cache.
func (c *Client) LoadBoard(ctx context.Context, projectID int) error {
	var columns []models.Column
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/columns", projectID), nil, &columns); err != nil {
		return err
	}
	var board map[int][]models.Card
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/cards", projectID), nil, &board); err != nil {
		return err
	}
	if board == nil {
		board = make(map[int][]models.Card)
	}
	// Columns with no cards still get a slot so local moves into them
	// work before the server has any card there
	for _, column := range columns {
		if _, ok := board[column.ID]; !ok {
			board[column.ID] = nil
		}
	}
	c.cache.SetBoard(projectID, columns, board)
	return nil
}

type moveCardRequest struct {
	ID       int  `json:"id"`
	ColumnID *int `json:"columnId"`
	Order    *int `json:"order"`
}

// MoveCard moves a card to a column and slot. The cached board is
// updated immediately; if the server rejects the move the cache is
// rolled back to its prior state, otherwise the server's card is
// merged in. A move that lands in a different project invalidates and
// reloads both projects' boards.
func (c *Client) MoveCard(ctx context.Context, projectID, cardID, toColumnID, toPosition int) (*models.Card, error) {
	snap := c.cache.snapshot(projectID)
	applied := c.cache.applyMove(projectID, cardID, toColumnID, toPosition)

	var moved models.Card
	err := c.do(ctx, http.MethodPut, "/todo", moveCardRequest{
		ID:       cardID,
		ColumnID: &toColumnID,
		Order:    &toPosition,
	}, &moved)
	if err != nil {
		if applied {
			c.cache.restore(projectID, snap)
		}
		return nil, err
	}

	if moved.ProjectID != projectID {
		// Cross-project move: the optimistic apply was wrong about
		// which board changed, refetch both
		c.cache.Invalidate(projectID)
		c.cache.Invalidate(moved.ProjectID)
		if err := c.LoadBoard(ctx, projectID); err != nil {
			return &moved, err
		}
		if err := c.LoadBoard(ctx, moved.ProjectID); err != nil {
			return &moved, err
		}
		return &moved, nil
	}

	if applied {
		c.cache.mergeCard(projectID, &moved)
	} else if err := c.LoadBoard(ctx, projectID); err != nil {
		return &moved, err
	}
	return &moved, nil
}

type reorderColumnsRequest struct {
	OrderedColumnIDs []int `json:"orderedColumnIds"`
}

// ReorderColumns rewrites a project's column order. Applied to the
// cache optimistically and rolled back if the server rejects the id
// list.
func (c *Client) ReorderColumns(ctx context.Context, projectID int, orderedIDs []int) ([]models.Column, error) {
	snap := c.cache.snapshot(projectID)
	applied := c.cache.applyColumnOrder(projectID, orderedIDs)

	var columns []models.Column
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/columns/reorder", projectID), reorderColumnsRequest{
		OrderedColumnIDs: orderedIDs,
	}, &columns)
	if err != nil {
		if applied {
			c.cache.restore(projectID, snap)
		}
		return nil, err
	}

	c.cache.setColumns(projectID, columns)
	return columns, nil
}

type createCardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ColumnID    int    `json:"columnId"`
}

// CreateCard creates a card at the end of a column and reloads the
// affected board.
func (c *Client) CreateCard(ctx context.Context, projectID int, columnID int, title, description string) (*models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPost, "/todo", createCardRequest{
		Title:       title,
		Description: description,
		ColumnID:    columnID,
	}, &card)
	if err != nil {
		return nil, err
	}
	if err := c.LoadBoard(ctx, projectID); err != nil {
		return &card, err
	}
	return &card, nil
}

// Projects lists all projects.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
