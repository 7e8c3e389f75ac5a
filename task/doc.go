// Package task declares the shape of a unit of work whose output lives in a filecache.FileCache.
//
// A Task names the keys it requires and the single key it creates. Run enforces the contract between a task and the cache for one invocation: every required key
// must already be in the cache before Make runs, and the created key has a directory once Make succeeds. Ordering tasks, retrying them, and running them in parallel
// are left to the caller.
package task
