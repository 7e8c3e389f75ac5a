package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/codalotl/filecache/filecache"
	"github.com/codalotl/filecache/internal/simplelogger"
	"github.com/codalotl/filecache/key"
)

var logger = simplelogger.Component("task")

// Task is a unit of work producing a value of type T.
type Task[T any] interface {
	// Requires returns the keys whose values Make needs.
	Requires() []key.Key

	// Creates returns the key this task is responsible for.
	Creates() key.Key

	// Make computes the output from inputs, which holds a value for every key in Requires. Make may write artifacts under cache.KeyDir(Creates()), creating it first
	// with cache.CreateKeyDir.
	Make(inputs map[key.Key]T, cache *filecache.FileCache) (T, error)
}

// Func adapts plain values to a Task.
type Func[T any] struct {
	RequiresKeys []key.Key
	CreatesKey   key.Key
	MakeFunc     func(inputs map[key.Key]T, cache *filecache.FileCache) (T, error)
}

func (f Func[T]) Requires() []key.Key { return f.RequiresKeys }
func (f Func[T]) Creates() key.Key    { return f.CreatesKey }

func (f Func[T]) Make(inputs map[key.Key]T, cache *filecache.FileCache) (T, error) {
	return f.MakeFunc(inputs, cache)
}

// Output is a value produced by one Run.
type Output[T any] struct {
	Contents       T
	BuildIteration uint64    // caller-supplied build counter
	BuildTime      time.Time // when Make returned
}

// MissingInputsError is returned by Run when required keys are absent from the cache.
type MissingInputsError struct {
	Creates key.Key
	Missing []key.Key
}

func (e *MissingInputsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = k.Base64()
	}
	return fmt.Sprintf("task %s: missing required keys: %s", e.Creates, strings.Join(names, ", "))
}

// MissingInputs returns the keys in t.Requires() that c does not contain, in declaration order.
func MissingInputs[T any](c *filecache.FileCache, t Task[T]) []key.Key {
	var missing []key.Key
	for _, k := range t.Requires() {
		if !c.Contains(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// Run invokes t once.
//
// Before calling Make, Run returns a *MissingInputsError if any required key is not in c, and an error if inputs lacks a value for a required key. After Make
// succeeds, Run creates the directory for t.Creates() unless c already contains it. If Make fails after creating that directory itself, Run removes it again, so
// a failed task never looks built. Errors from Make and from the cache are returned unchanged.
//
// iteration is recorded in the returned Output as-is.
func Run[T any](c *filecache.FileCache, t Task[T], inputs map[key.Key]T, iteration uint64) (Output[T], error) {
	creates := t.Creates()

	if missing := MissingInputs(c, t); len(missing) > 0 {
		return Output[T]{}, &MissingInputsError{Creates: creates, Missing: missing}
	}
	for _, k := range t.Requires() {
		if _, ok := inputs[k]; !ok {
			return Output[T]{}, fmt.Errorf("task %s: no input value for required key %s", creates, k)
		}
	}

	had := c.Contains(creates)
	v, err := t.Make(inputs, c)
	if err != nil {
		logger.Log("make %s failed: %v", creates, err)
		// A failed task must not leave its key behind.
		if !had {
			if rmErr := c.RemoveKeyDir(creates); rmErr != nil {
				logger.Log("remove %s after failed make: %v", creates, rmErr)
			}
		}
		return Output[T]{}, err
	}
	built := time.Now()

	if !c.Contains(creates) {
		if err := c.CreateKeyDir(creates); err != nil {
			return Output[T]{}, err
		}
	}

	logger.Log("made %s (iteration %d)", creates, iteration)
	return Output[T]{Contents: v, BuildIteration: iteration, BuildTime: built}, nil
}
