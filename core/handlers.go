package core

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handlers interface {
	PostEvents(gctx *gin.Context)
	GetEvents(gctx *gin.Context)
	GetEvent(gctx *gin.Context)
	PatchEvent(gctx *gin.Context)
	DeleteEvent(gctx *gin.Context)
	GetDayEvents(gctx *gin.Context)
	PostCommands(gctx *gin.Context)
	GetSuggestions(gctx *gin.Context)
	GetConflicts(gctx *gin.Context)
	GetTodayView(gctx *gin.Context)
	GetWeekView(gctx *gin.Context)
	GetCellView(gctx *gin.Context)
	GetWeekFeed(gctx *gin.Context)
	GetArchive(gctx *gin.Context)
}

type handlers struct {
	store       *EventStore
	interpreter *Interpreter
	projector   *Projector
	archive     Archive
}

func NewHandlers(store *EventStore, interpreter *Interpreter, projector *Projector, archive Archive) Handlers {
	return &handlers{
		store:       store,
		interpreter: interpreter,
		projector:   projector,
		archive:     archive,
	}
}

func (h *handlers) PostEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var draft EventDraft

	err := gctx.ShouldBindJSON(&draft)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	err = ValidateDraft(draft)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("event validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("event validation failed", err))

		return
	}

	event := h.store.Create(draft)

	if err := h.archive.RecordCreated(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", event.Id).Msg("failed to archive created event")
	}

	gctx.JSON(http.StatusCreated, event)
}

func (h *handlers) GetEvents(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, h.store.ListAll())
}

func (h *handlers) GetEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := eventId(gctx)
	if !ok {
		return
	}

	event, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			log.Ctx(ctx).Info().Int64("event_id", id).Msg("event not found")
			gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", err))

			return
		}

		log.Ctx(ctx).Error().Err(err).Msg("fetching event failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("fetching event failed", err))

		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) PatchEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := eventId(gctx)
	if !ok {
		return
	}

	var patch EventPatch

	err := gctx.ShouldBindJSON(&patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	err = ValidatePatch(patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("patch validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("patch validation failed", err))

		return
	}

	event, err := h.store.Update(id, patch)
	if err != nil {
		log.Ctx(ctx).Info().Int64("event_id", id).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", err))

		return
	}

	if err := h.archive.RecordUpdated(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", event.Id).Msg("failed to archive updated event")
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) DeleteEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := eventId(gctx)
	if !ok {
		return
	}

	if !h.store.Delete(id) {
		log.Ctx(ctx).Info().Int64("event_id", id).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", ErrEventNotFound))

		return
	}

	if err := h.archive.RecordDeleted(ctx, id); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", id).Msg("failed to archive deleted event")
	}

	gctx.Status(http.StatusNoContent)
}

func (h *handlers) GetDayEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	day, err := strconv.Atoi(gctx.Param("day"))
	if err != nil || day < 0 || day > 6 {
		log.Ctx(ctx).Error().Err(err).Str("day", gctx.Param("day")).Msg("invalid day index")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("day must be an index between 0 and 6", err))

		return
	}

	gctx.JSON(http.StatusOK, h.store.ListByDay(day))
}

func (h *handlers) PostCommands(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var body struct {
		Command string `json:"command"`
	}

	err := gctx.ShouldBindJSON(&body)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	// Execute never fails: collaborator trouble comes back as an
	// unknown action with an apology message.
	gctx.JSON(http.StatusOK, h.interpreter.Execute(ctx, body.Command))
}

func (h *handlers) GetSuggestions(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, gin.H{"suggestions": h.interpreter.Suggest(gctx.Request.Context())})
}

func (h *handlers) GetConflicts(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, DetectConflicts(h.store.ListAll()))
}

func (h *handlers) GetTodayView(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, gin.H{
		"events": h.projector.TodaySchedule(),
		"next":   nextOrNull(h.projector),
	})
}

func (h *handlers) GetWeekView(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	anchor := h.projector.ThisWeek()

	if raw := gctx.Query("anchor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("anchor", raw).Msg("invalid anchor date")
			gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("anchor must be an RFC3339 date", err))

			return
		}

		anchor = parsed
	}

	week := WeekDates(anchor)

	days := make([]gin.H, 0, len(week))
	for i, date := range week {
		days = append(days, gin.H{
			"date":   date,
			"events": h.store.ListByDay(i),
		})
	}

	gctx.JSON(http.StatusOK, gin.H{
		"days": days,
		"prev": PrevWeek(anchor),
		"next": NextWeek(anchor),
	})
}

func (h *handlers) GetCellView(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	day, dayErr := strconv.Atoi(gctx.Query("day"))
	hour, hourErr := strconv.Atoi(gctx.Query("hour"))

	if dayErr != nil || hourErr != nil || day < 0 || day > 6 || hour < 0 || hour > 23 {
		log.Ctx(ctx).Error().Msg("invalid cell coordinates")
		gctx.AbortWithStatusJSON(http.StatusBadRequest,
			NewError("day (0-6) and hour (0-23) query parameters are required", dayErr, hourErr))

		return
	}

	gctx.JSON(http.StatusOK, h.projector.EventsForCell(day, hour))
}

func (h *handlers) GetWeekFeed(gctx *gin.Context) {
	anchor := h.projector.ThisWeek()

	if raw := gctx.Query("anchor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("anchor must be an RFC3339 date", err))
			return
		}

		anchor = parsed
	}

	gctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(BuildWeekFeed(anchor, h.store.ListAll())))
}

func (h *handlers) GetArchive(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	limit := 50
	if raw := gctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("limit must be a positive integer", err))
			return
		}

		limit = parsed
	}

	entries, err := h.archive.RecentEntries(ctx, limit)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("reading event log failed")
		gctx.AbortWithStatusJSON(http.StatusBadGateway, NewError("reading event log failed", err))

		return
	}

	gctx.JSON(http.StatusOK, entries)
}

func eventId(gctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(gctx.Param("id"), 10, 64)
	if err != nil {
		log.Ctx(gctx.Request.Context()).Error().Err(err).Str("id", gctx.Param("id")).Msg("invalid event id")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("parameter 'id' must be an integer", err))

		return 0, false
	}

	return id, true
}

func nextOrNull(p *Projector) any {
	next, ok := p.NextEvent()
	if !ok {
		return nil
	}

	return gin.H{
		"event":            next.Event,
		"starts_in_minutes": int(next.StartsIn.Minutes()),
	}
}
