// Package routing 通过 OSRM 步行 (foot) 路网规划从用户位置到全景点的路线
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/time/rate"

	"office-navigator/logger"
	"office-navigator/metrics"
	"office-navigator/model"
)

// ErrNoRoute 路网中两点之间不可达
var ErrNoRoute = errors.New("routing: no route found")

// Router 步行路线规划
type Router interface {
	Walk(ctx context.Context, from, to model.Point) (*Route, error)
}

// Step 路线中的一个转向
type Step struct {
	Type     string  `json:"type"`               // depart / turn / arrive ...
	Modifier string  `json:"modifier,omitempty"` // left / right / straight ...
	Name     string  `json:"name,omitempty"`     // 道路名称
	Distance float64 `json:"distance"`           // 米
	Duration float64 `json:"duration"`           // 秒
}

// Route 路网返回的路线
type Route struct {
	Distance float64       `json:"distance"` // 米
	Duration float64       `json:"duration"` // 秒
	Geometry []model.Point `json:"geometry"`
	Steps    []Step        `json:"steps,omitempty"`
}

// OSRMClient OSRM HTTP 接口客户端, 请求经过令牌桶限速
type OSRMClient struct {
	BaseURL string
	Profile string
	HTTP    *http.Client
	Limiter *rate.Limiter
}

// NewOSRMClient rps 为每秒允许的请求数
func NewOSRMClient(baseURL string, rps float64, burst int) *OSRMClient {
	if burst < 1 {
		burst = 1
	}
	return &OSRMClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Profile: "foot",
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64           `json:"distance"`
		Duration float64           `json:"duration"`
		Geometry *geojson.Geometry `json:"geometry"`
		Legs     []struct {
			Steps []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Name     string  `json:"name"`
				Maneuver struct {
					Type     string `json:"type"`
					Modifier string `json:"modifier"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Walk 请求 from -> to 的步行路线
func (c *OSRMClient) Walk(ctx context.Context, from, to model.Point) (*Route, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u := fmt.Sprintf("%s/route/v1/%s/%.7f,%.7f;%.7f,%.7f?%s",
		c.BaseURL, c.Profile, from.Lng, from.Lat, to.Lng, to.Lat,
		url.Values{
			"overview":   {"full"},
			"geometries": {"geojson"},
			"steps":      {"true"},
		}.Encode())

	metrics.RoutingRequestsTotal.Inc()
	start := time.Now()
	route, err := c.do(ctx, u)
	metrics.RoutingDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RoutingFailTotal.Inc()
		logger.L().Warn("osrm_route_error", "err", err,
			"from_lat", from.Lat, "from_lng", from.Lng, "to_lat", to.Lat, "to_lng", to.Lng)
		return nil, err
	}
	logger.L().Debug("osrm_route_ok", "distance_m", route.Distance, "duration_s", route.Duration, "points", len(route.Geometry))
	return route, nil
}

func (c *OSRMClient) do(ctx context.Context, u string) (*Route, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm request: %w", err)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("osrm decode (status %d): %w", resp.StatusCode, err)
	}
	// OSRM 对不可达同样返回 400, 以 code 为准
	switch body.Code {
	case "Ok":
	case "NoRoute", "NoSegment":
		return nil, ErrNoRoute
	default:
		return nil, fmt.Errorf("osrm: %s: %s", body.Code, body.Message)
	}
	if len(body.Routes) == 0 {
		return nil, ErrNoRoute
	}

	r := body.Routes[0]
	out := &Route{Distance: r.Distance, Duration: r.Duration}
	if r.Geometry != nil {
		ls, ok := r.Geometry.Geometry().(orb.LineString)
		if !ok {
			return nil, fmt.Errorf("osrm: unexpected geometry %s", r.Geometry.Type)
		}
		out.Geometry = make([]model.Point, len(ls))
		for i, p := range ls {
			out.Geometry[i] = model.Point{Lat: p.Lat(), Lng: p.Lon()}
		}
	}
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			out.Steps = append(out.Steps, Step{
				Type:     s.Maneuver.Type,
				Modifier: s.Maneuver.Modifier,
				Name:     s.Name,
				Distance: s.Distance,
				Duration: s.Duration,
			})
		}
	}
	return out, nil
}
