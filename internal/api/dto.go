package api

import (
	"github.com/starford/notelist/internal/events"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/noteservice"
)

// EventRequest is the request body for an item interaction.
type EventRequest = events.Event

// NoteItem is a rendered list item (aliased from the domain layer).
type NoteItem = models.ViewModel

// NoteListResponse wraps a page of rendered items.
type NoteListResponse = noteservice.ListResult
