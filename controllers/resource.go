package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/utils"
	"github.com/sirupsen/logrus"
)

// patcher is a partial-update request for one table: apply copies the
// provided fields onto row and returns them as columns to write.
type patcher[T any] interface {
	apply(row *T) map[string]interface{}
}

// resource serves get/create/update/delete for one catalog table
type resource[T any, R patcher[T]] struct {
	store    *services.Store[T]
	notFound error
	validate func(T) error
	defaults func(*T)
	changed  func(context.Context)
	noun     string
	log      logrus.FieldLogger
}

func (r resource[T, R]) notifyChanged(ctx context.Context) {
	if r.changed != nil {
		r.changed(ctx)
	}
}

func (r resource[T, R]) get(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	row, err := r.store.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, r.log, notFoundAsSubject(err, r.notFound), r.notFound, "load "+r.noun)
		return
	}
	utils.RespondData(c, http.StatusOK, row)
}

func (r resource[T, R]) create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	row := new(T)
	if r.defaults != nil {
		r.defaults(row)
	}
	req.apply(row)
	if err := r.validate(*row); err != nil {
		respondServiceError(c, r.log, err, nil, "create "+r.noun)
		return
	}

	if err := r.store.Insert(c.Request.Context(), row); err != nil {
		respondServiceError(c, r.log, err, nil, "create "+r.noun)
		return
	}
	r.log.WithField("resource", r.noun).Info("Catalog entry created")
	r.notifyChanged(c.Request.Context())
	utils.RespondData(c, http.StatusCreated, row)
}

func (r resource[T, R]) update(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	row, err := r.store.Get(ctx, id)
	if err != nil {
		respondServiceError(c, r.log, notFoundAsSubject(err, r.notFound), r.notFound, "load "+r.noun)
		return
	}

	fields := req.apply(row)
	if err := r.validate(*row); err != nil {
		respondServiceError(c, r.log, err, nil, "update "+r.noun)
		return
	}
	if err := r.store.Update(ctx, id, fields); err != nil {
		respondServiceError(c, r.log, notFoundAsSubject(err, r.notFound), r.notFound, "update "+r.noun)
		return
	}
	r.notifyChanged(ctx)

	updated, err := r.store.Get(ctx, id)
	if err != nil {
		respondServiceError(c, r.log, notFoundAsSubject(err, r.notFound), r.notFound, "load "+r.noun)
		return
	}
	utils.RespondData(c, http.StatusOK, updated)
}

func (r resource[T, R]) delete(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	if err := r.store.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, r.log, notFoundAsSubject(err, r.notFound), r.notFound, "delete "+r.noun)
		return
	}
	r.log.WithFields(logrus.Fields{"resource": r.noun, "id": id}).Info("Catalog entry deleted")
	r.notifyChanged(c.Request.Context())
	utils.RespondData(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// notFoundAsSubject swaps the generic store miss for the resource's own error
func notFoundAsSubject(err, subject error) error {
	if errors.Is(err, services.ErrNotFound) {
		return subject
	}
	return err
}
