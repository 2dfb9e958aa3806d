// Package retry repeats an operation that failed for a temporary reason,
// waiting with exponential backoff between attempts.
//
// Writing a book fails when another process holds the book's lock, for
// example a library manager or a sync client that is copying it. Such
// failures usually clear within seconds, so the rewrite is retried a few
// times before the book is reported as failed:
//
//	executor := retry.NewExecutor(retry.NewLockClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    _, err := epub.Rewrite(ctx, req)
//	    return err
//	})
//
// Executor instances are safe for concurrent use. WithOnRetry returns a copy.
package retry
