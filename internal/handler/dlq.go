package handler

import (
	"net/http"
	"strconv"

	"rackpos/internal/apierror"
	"rackpos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var colasDLQ = map[string]string{
	"recibos": worker.QueueRecibos,
	"email":   worker.QueueEmail,
}

// ReencolarDLQ godoc
// @Summary      Reencolar trabajos fallidos
// @Description  Mueve hasta max trabajos de la cola de fallidos de vuelta a su cola original.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        cola path  string true  "recibos | email"
// @Param        max  query int    false "Maximo de trabajos (por defecto 100)"
// @Success      200 {object} map[string]int
// @Router       /v1/admin/dlq/{cola}/reencolar [post]
func ReencolarDLQ(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		queue, ok := colasDLQ[c.Param("cola")]
		if !ok {
			c.JSON(http.StatusNotFound, apierror.New("cola desconocida"))
			return
		}
		if rdb == nil {
			c.JSON(http.StatusServiceUnavailable, apierror.New("redis no disponible"))
			return
		}
		max := 100
		if s := c.Query("max"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, apierror.New("max invalido"))
				return
			}
			max = n
		}
		moved, err := worker.Requeue(c.Request.Context(), rdb, queue, max)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("no se pudo reencolar"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"reencolados": moved})
	}
}
