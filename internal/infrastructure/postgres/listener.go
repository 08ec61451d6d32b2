package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/gacha-stock/internal/application/realtime"
	"github.com/tu-usuario/gacha-stock/pkg/logger"
)

// ChangeListener mantiene una conexión dedicada en LISTEN sobre el canal
// de cambios y reenvía cada notificación al hub. El payload es el nombre
// de la tabla; los clientes re-consultan el estado completo al recibirlo.
type ChangeListener struct {
	pool *pgxpool.Pool
	hub  *realtime.Hub
	log  *logger.Logger
}

// NewChangeListener construye el listener.
func NewChangeListener(pool *pgxpool.Pool, hub *realtime.Hub, log *logger.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, hub: hub, log: log}
}

// Listen bloquea escuchando notificaciones hasta que el contexto se cancele.
// Si la conexión se cae, reintenta con una pausa corta; las notificaciones
// perdidas durante la reconexión no se reponen (los clientes corrigen su
// vista con el siguiente cambio o con un refresh manual).
func (l *ChangeListener) Listen(ctx context.Context) {
	for {
		if err := l.listenOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Error().Err(err).Msg("listener de cambios desconectado, reintentando")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}
	}
}

func (l *ChangeListener) listenOnce(ctx context.Context) error {
	poolConn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer poolConn.Release()

	conn := poolConn.Conn()
	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel); err != nil {
		return err
	}
	l.log.Info().Str("channel", notifyChannel).Msg("escuchando cambios de stock")

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.log.Debug().Str("table", notification.Payload).Msg("cambio detectado")
		l.hub.Publish(notification.Payload)
	}
}
