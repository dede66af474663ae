// Package worker drena los eventos del libro de stock hacia los publicadores externos.
package worker

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/alumac/alumac-api/internal/application/inventory"
	"github.com/alumac/alumac-api/pkg/logger"
)

var _ inventory.EventSink = (*Dispatcher)(nil)

// Publisher entrega un evento a un sistema externo (Redis, Kafka).
type Publisher interface {
	Name() string
	Publish(ctx context.Context, evt inventory.Event) error
}

// Dispatcher colas en memoria con un pool fijo de workers. Cada worker tiene su propia cola y los
// eventos se reparten por Key(), así todos los eventos de un material pasan por el mismo worker y
// se publican en el orden en que se encolaron. Los eventos son best-effort: con la cola llena o ante
// un error de publicación se registran y se descartan.
type Dispatcher struct {
	queues         []chan inventory.Event
	publishers     []Publisher
	log            *logger.Logger
	publishTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher crea el despachador y lanza numWorkers goroutines, cada una con una cola de queueSize.
func NewDispatcher(log *logger.Logger, numWorkers, queueSize int, publishers ...Publisher) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		queues:         make([]chan inventory.Event, numWorkers),
		publishers:     publishers,
		log:            log.Named("dispatcher"),
		publishTimeout: 5 * time.Second,
	}
	for i := range d.queues {
		d.queues[i] = make(chan inventory.Event, queueSize)
		d.wg.Add(1)
		go d.run(i, d.queues[i])
	}
	d.log.Info().Int("workers", numWorkers).Int("queue", queueSize).Int("publishers", len(publishers)).
		Msg("despachador de eventos iniciado")
	return d
}

// Enqueue encola sin bloquear en la cola del worker que corresponde a evt.Key().
func (d *Dispatcher) Enqueue(evt inventory.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("type", evt.Type).Str("material_id", evt.MaterialID).Msg("despachador cerrado, evento descartado")
		return
	}
	select {
	case d.queues[d.shard(evt.Key())] <- evt:
	default:
		d.log.Warn().Str("type", evt.Type).Str("material_id", evt.MaterialID).Msg("cola llena, evento descartado")
	}
}

// Close deja de aceptar eventos y espera a que se drene la cola o venza ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, q := range d.queues {
			close(q)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shard(key string) int {
	if len(d.queues) == 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.queues)))
}

func (d *Dispatcher) run(id int, queue <-chan inventory.Event) {
	defer d.wg.Done()
	for evt := range queue {
		d.deliver(evt)
	}
	d.log.Debug().Int("worker", id).Msg("worker detenido")
}

func (d *Dispatcher) deliver(evt inventory.Event) {
	for _, p := range d.publishers {
		ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
		err := p.Publish(ctx, evt)
		cancel()
		if err != nil {
			d.log.Error().Err(err).Str("publisher", p.Name()).Str("type", evt.Type).
				Str("material_id", evt.MaterialID).Msg("no se pudo publicar el evento")
		}
	}
}
