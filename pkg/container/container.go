// Package container, uygulama bağımlılıklarını yöneten küçük bir DI
// konteyneridir. Servisler tipleriyle kaydedilir, ilk istendiklerinde
// "tembel" (lazy) olarak oluşturulur ve singleton olarak saklanır.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
)

// ErrNotRegistered, tip için kayıt yoksa döner.
var ErrNotRegistered = errors.New("container: service not registered")

// ErrCycle, servisler birbirine döngüsel bağımlıysa döner.
var ErrCycle = errors.New("container: dependency cycle")

// Shutdowner, context ile kapatılan servislerdir (ör. telemetry provider).
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Container, bağımlılıkları yöneten DI konteyneridir.
//
// Eşzamanlı kullanım güvenlidir. Aynı tip için aynı anda gelen çözümler tek
// bir fabrika çağrısını bekler. Fabrikaya verilen Container, o çağrının
// çözüm zincirini taşır; döngüler bu zincir üzerinden yakalanır.
type Container struct {
	*registry
	chain []reflect.Type
}

type registry struct {
	mu        sync.RWMutex
	factories map[reflect.Type]func(*Container) (any, error)
	instances map[reflect.Type]any
	inflight  map[reflect.Type]*build
	order     []reflect.Type
}

// build, devam eden bir fabrika çağrısıdır. waitingOn, fabrikanın o an
// beklediği bağımlılıktır; goroutine'ler arası döngüleri yakalamak için
// tutulur.
type build struct {
	done      chan struct{}
	value     any
	err       error
	waitingOn reflect.Type
}

// New, yeni bir boş DI konteyneri oluşturur.
func New() *Container {
	return &Container{registry: &registry{
		factories: make(map[reflect.Type]func(*Container) (any, error)),
		instances: make(map[reflect.Type]any),
		inflight:  make(map[reflect.Type]*build),
	}}
}

// Provide, T tipi için bir fabrika kaydeder. Fabrika, servis ilk kez
// Resolve ile istendiğinde çalıştırılır. Aynı tip için tekrar kayıt
// öncekini ezer. Fabrika bağımlılıklarını kendisine verilen Container
// üzerinden çözmelidir; döngü tespiti o Container'ın zincirine dayanır.
//
// Örnek:
//
//	container.Provide(c, func(c *container.Container) (*sql.DB, error) {
//	    cfg := container.MustResolve[*config.Config](c)
//	    return database.Open(database.DefaultConfig(cfg.Database.ConnectionString), container.GetLogger(c))
//	})
func Provide[T any](c *Container, factory func(*Container) (T, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.factories[typeOf[T]()] = func(c *Container) (any, error) {
		return factory(c)
	}
}

// Instance, hazır bir değeri T tipi olarak kaydeder.
func Instance[T any](c *Container, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := typeOf[T]()
	c.instances[t] = value
	c.order = append(c.order, t)
}

// Resolve, T tipindeki servisi döndürür; gerekirse fabrikasını çalıştırır.
func Resolve[T any](c *Container) (T, error) {
	var zero T

	instance, err := c.get(typeOf[T]())
	if err != nil {
		return zero, err
	}
	// nil arayüz değerleri için ok kontrolü yapılmaz; zero döner.
	value, _ := instance.(T)
	return value, nil
}

// MustResolve, Resolve'u çağırır ama hata durumunda panic yapar. Bootstrap
// sırasında, servislerin varlığından emin olunduğunda kullanılır.
func MustResolve[T any](c *Container) T {
	instance, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return instance
}

// Has, T için kayıt veya örnek olup olmadığını döndürür.
func Has[T any](c *Container) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t := typeOf[T]()
	_, registered := c.factories[t]
	_, resolved := c.instances[t]
	return registered || resolved
}

func (c *Container) get(t reflect.Type) (any, error) {
	c.mu.RLock()
	instance, ok := c.instances[t]
	c.mu.RUnlock()
	if ok {
		return instance, nil
	}

	c.mu.Lock()
	if instance, ok = c.instances[t]; ok {
		c.mu.Unlock()
		return instance, nil
	}
	factory, ok := c.factories[t]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}
	if c.inChain(t) || c.waitCloses(t) {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrCycle, t)
	}

	owner := c.owner()
	if owner != nil {
		owner.waitingOn = t
	}
	defer c.clearWait(owner)

	if pending, ok := c.inflight[t]; ok {
		c.mu.Unlock()
		<-pending.done
		return pending.value, pending.err
	}

	b := &build{done: make(chan struct{})}
	c.inflight[t] = b
	c.mu.Unlock()

	// Fabrika bağımlılıklarını çözebilsin diye kilit dışında çalışır.
	child := &Container{registry: c.registry, chain: append(slices.Clone(c.chain), t)}
	instance, err := factory(child)

	c.mu.Lock()
	delete(c.inflight, t)
	if err != nil {
		b.err = fmt.Errorf("container: build %s: %w", t, err)
	} else {
		b.value = instance
		c.instances[t] = instance
		c.order = append(c.order, t)
	}
	c.mu.Unlock()
	close(b.done)

	return b.value, b.err
}

// inChain, t'nin bu çağrının kendi çözüm zincirinde olup olmadığını
// döndürür.
func (c *Container) inChain(t reflect.Type) bool {
	return slices.Contains(c.chain, t)
}

// waitCloses, t'yi beklemenin bir bekleme döngüsü kurup kurmayacağını
// döndürür: t'den başlayıp waitingOn kenarları izlenir, zincirdeki bir
// tipe varılırsa döngü vardır. c.mu tutulurken çağrılır.
func (c *Container) waitCloses(t reflect.Type) bool {
	next := t
	for i := 0; i <= len(c.inflight); i++ {
		b, ok := c.inflight[next]
		if !ok || b.waitingOn == nil {
			return false
		}
		next = b.waitingOn
		if c.inChain(next) {
			return true
		}
	}
	return false
}

// owner, bu Container'ı alan fabrika çağrısıdır; kök Container için nil.
// c.mu tutulurken çağrılır.
func (c *Container) owner() *build {
	if len(c.chain) == 0 {
		return nil
	}
	return c.inflight[c.chain[len(c.chain)-1]]
}

func (c *Container) clearWait(owner *build) {
	if owner == nil {
		return
	}
	c.mu.Lock()
	owner.waitingOn = nil
	c.mu.Unlock()
}

// Close, oluşturulmuş servisleri oluşturulma sırasının tersine kapatır.
// io.Closer ve Shutdowner uygulayan servisler kapatılır; tüm hatalar
// birleştirilip döndürülür.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	order := c.order
	c.order = nil
	instances := c.instances
	c.instances = make(map[reflect.Type]any)
	c.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		t := order[i]
		switch svc := instances[t].(type) {
		case Shutdowner:
			if err := svc.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", t, err))
			}
		case io.Closer:
			if err := svc.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", t, err))
			}
		}
	}
	return errors.Join(errs...)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
