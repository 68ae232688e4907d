package ports

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JamesMReilly/shopgraph/internal/graph"
	"github.com/JamesMReilly/shopgraph/internal/logging"
	"github.com/JamesMReilly/shopgraph/internal/ratelimiting"
	"github.com/JamesMReilly/shopgraph/internal/reporting"
	"github.com/graphql-go/graphql"
	gqlerrors "github.com/graphql-go/graphql/gqlerrors"
)

const maxQueryBytes = 1 << 20

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data   interface{}                `json:"data,omitempty"`
	Errors []gqlerrors.FormattedError `json:"errors,omitempty"`
}

func MakeGraphQLHandler(
	schema graphql.Schema,
	newLoaders func() *graph.Loaders,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(8),
		ratelimiting.BurstSize(480),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	userIDLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(2),
		ratelimiting.BurstSize(120),
	)
	userIDRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on user controlled value
		userIDLimiter,
		ratelimiting.UserIDKeyFunc,
	)

	onLimitExceeded := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":[{"message":"rate limit exceeded"}]}`))
	}

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("graphql"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
		NewRateLimitMiddleware(userIDRateLimiter, onLimitExceeded),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		handleBadRequest := func(cause string) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			response, err := json.Marshal(graphQLResponse{
				Errors: []gqlerrors.FormattedError{{Message: cause}},
			})
			if err != nil {
				reporting.Report(ctx, fmt.Errorf("failed to marshal error response: %w", err))
				w.Write([]byte(`{"errors":[{"message":"internal server error"}]}`))
				return
			}
			w.Write(response)
		}

		userID := r.Header.Get("X-User-Id")
		ctx = reporting.SetUserIDInContext(ctx, userID)

		var request graphQLRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBytes))
		if err := decoder.Decode(&request); err != nil {
			handleBadRequest("invalid request body")
			return
		}
		if request.Query == "" {
			handleBadRequest("missing query")
			return
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.String("operationName", request.OperationName),
		)
		ctx = reporting.AddExtrasToContext(ctx,
			map[string]string{
				"operationName": request.OperationName,
			},
		)

		// The loader bundle is the per-request isolation boundary: built
		// here, dropped when the traversal finishes
		ctx = graph.AddToContext(ctx, newLoaders())

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  request.Query,
			OperationName:  request.OperationName,
			VariableValues: request.Variables,
			Context:        ctx,
		})

		if len(result.Errors) > 0 {
			logging.FromContext(ctx).InfoContext(ctx, "Query completed with errors",
				slog.Int("errorCount", len(result.Errors)),
			)
		}

		response, err := json.Marshal(graphQLResponse{
			Data:   result.Data,
			Errors: result.Errors,
		})
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"errors":[{"message":"internal server error"}]}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}

	return middleware(handler)
}
