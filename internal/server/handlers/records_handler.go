package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
	"github.com/mamadbah2/ganaderia/internal/service/dashboard"
	"github.com/mamadbah2/ganaderia/internal/service/herd"
)

type labeledMilk struct {
	models.MilkEntry
	AnimalLabel string `json:"animalLabel"`
}

type labeledEvent struct {
	models.HealthEvent
	AnimalLabel string `json:"animalLabel"`
}

type userRequest struct {
	Name string `json:"name"`
}

type doneRequest struct {
	DoneBy string `json:"doneBy"`
}

// ListUsers returns every profile.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.herd.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(users))
}

// CreateUser adds a profile.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.herd.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListAnimals returns the herd.
func (h *Handler) ListAnimals(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(snap.Animals))
}

// CreateAnimal registers a new animal.
func (h *Handler) CreateAnimal(c *gin.Context) {
	var animal models.Animal
	if !h.bind(c, &animal) {
		return
	}
	animal.ID = ""
	saved, err := h.herd.SaveAnimal(c.Request.Context(), animal)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateAnimal edits the animal named in the path.
func (h *Handler) UpdateAnimal(c *gin.Context) {
	var animal models.Animal
	if !h.bind(c, &animal) {
		return
	}
	animal.ID = c.Param("id")
	saved, err := h.herd.SaveAnimal(c.Request.Context(), animal)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListMilk returns milk entries newest first, optionally for one animal.
func (h *Handler) ListMilk(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	animalID := c.Query("animalId")
	rows := make([]labeledMilk, 0, len(snap.Milk))
	for _, m := range snap.Milk {
		if animalID != "" && m.AnimalID != animalID {
			continue
		}
		rows = append(rows, labeledMilk{MilkEntry: m, AnimalLabel: snap.AnimalLabel(m.AnimalID)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	c.JSON(http.StatusOK, rows)
}

// CreateMilk records a milking.
func (h *Handler) CreateMilk(c *gin.Context) {
	var in herd.MilkInput
	if !h.bind(c, &in) {
		return
	}
	entry, err := h.herd.RecordMilk(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListHealthEvents returns every sanitary application with its animal label.
func (h *Handler) ListHealthEvents(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	rows := make([]labeledEvent, 0, len(snap.HealthEvents))
	for _, e := range snap.HealthEvents {
		rows = append(rows, labeledEvent{HealthEvent: e, AnimalLabel: snap.AnimalLabel(e.AnimalID)})
	}
	c.JSON(http.StatusOK, rows)
}

// CreateHealthEvent records an application and schedules its boosters.
func (h *Handler) CreateHealthEvent(c *gin.Context) {
	var in herd.HealthEventInput
	if !h.bind(c, &in) {
		return
	}
	event, boosters, err := h.herd.RecordHealthEvent(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event, "boosters": boosters})
}

// ListBoosters returns the booster board. Query: filter, q.
func (h *Handler) ListBoosters(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := dashboard.Boosters(snap, h.views.Now(), c.Query("filter"), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// MarkBoosterDone completes a booster. Completing it again changes nothing.
func (h *Handler) MarkBoosterDone(c *gin.Context) {
	var req doneRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}
	b, err := h.herd.MarkBoosterDone(c.Request.Context(), c.Param("id"), req.DoneBy)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListRepro returns the reproduction table. Query: review=true, q.
func (h *Handler) ListRepro(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.Reproduction(snap, h.views.Now(), c.Query("review") == "true", c.Query("q")))
}

// CreateRepro appends a breeding snapshot.
func (h *Handler) CreateRepro(c *gin.Context) {
	var in herd.ReproInput
	if !h.bind(c, &in) {
		return
	}
	r, err := h.herd.RecordRepro(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ListRawBovines returns the loose inventory.
func (h *Handler) ListRawBovines(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(snap.RawBovines))
}

// SaveRawBovine creates or updates an inventory row.
func (h *Handler) SaveRawBovine(c *gin.Context) {
	var b models.RawBovine
	if !h.bind(c, &b) {
		return
	}
	saved, err := h.herd.SaveRawBovine(c.Request.Context(), b)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListMedications returns the medication log.
func (h *Handler) ListMedications(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(snap.Medications))
}

// SaveMedication creates or updates a medication log entry.
func (h *Handler) SaveMedication(c *gin.Context) {
	var m models.Medication
	if !h.bind(c, &m) {
		return
	}
	saved, err := h.herd.SaveMedication(c.Request.Context(), m)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// DeleteFrom returns a handler deleting by path id from one collection.
func (h *Handler) DeleteFrom(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.herd.Delete(c.Request.Context(), collection, c.Param("id")); err != nil {
			h.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// financeCollections maps finance path segments onto collections.
var financeCollections = map[string]string{
	"sales":       repository.CollectionCheeseSales,
	"purchases":   repository.CollectionMilkPurchase,
	"transport":   repository.CollectionTransport,
	"fixed-costs": repository.CollectionFixedCosts,
}

// DeleteFinance deletes a finance entry addressed by /finance/:collection/:id.
func (h *Handler) DeleteFinance(c *gin.Context) {
	collection, ok := financeCollections[c.Param("collection")]
	if !ok {
		h.fail(c, fmt.Errorf("%w: finance collection %q", herd.ErrInvalidArguments, c.Param("collection")))
		return
	}
	h.DeleteFrom(collection)(c)
}
