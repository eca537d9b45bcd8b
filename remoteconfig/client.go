package remoteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	keyFlags       = "flags"
	keyAPIKeys     = "api_keys"
	keyRegistry    = "registry"
	keyUpdateCheck = "update_check"
)

// Client polls a remote-config endpoint on a background cadence and
// serves cached flags, encrypted-then-decrypted API keys, and the model
// registry to callers without blocking on the network. Every exported
// getter is safe for concurrent use.
type Client struct {
	cfg ClientConfig

	httpClient *http.Client
	cache      *diskCache

	mu              sync.RWMutex
	flags           map[string]bool
	apiKeys         map[string]string // provider -> encrypted blob, decrypted lazily
	registry        []string
	lastUpdateCheck UpdateCheck
	etag            string

	consecutiveErrors int

	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewClient constructs a Client. It does not perform any network I/O or
// start polling — call Start for that.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ProductCode == "" || cfg.LicenseKey == "" || cfg.DeviceID == "" {
		return nil, fmt.Errorf("remoteconfig: product code, license key, and device id are required")
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	cache, err := newDiskCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		flags:      make(map[string]bool),
		apiKeys:    make(map[string]string),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	c.loadFromDisk()
	return c, nil
}

// loadFromDisk seeds in-memory state from whatever is already on disk
// (possibly stale), so a freshly constructed Client can answer queries
// before its first successful poll completes.
func (c *Client) loadFromDisk() {
	var flags map[string]bool
	etag, _ := c.cache.get(keyFlags, &flags)
	if flags != nil {
		c.flags = flags
		c.etag = etag
	}

	var keys map[string]string
	c.cache.get(keyAPIKeys, &keys)
	if keys != nil {
		c.apiKeys = keys
	}

	var registry []string
	c.cache.get(keyRegistry, &registry)
	if registry != nil {
		c.registry = registry
	}

	var update UpdateCheck
	c.cache.get(keyUpdateCheck, &update)
	if update != (UpdateCheck{}) {
		c.lastUpdateCheck = update
	}
}

// Start launches the background polling loop. It performs one synchronous
// poll before returning so the first call to a getter after Start isn't
// racing an empty cache, then continues polling on its own goroutine
// until Stop is called.
func (c *Client) Start(ctx context.Context) error {
	if err := c.poll(ctx); err != nil {
		log.Warn().Err(err).Msg("remoteconfig: initial poll failed, serving cached/default values")
	}

	go c.pollLoop(ctx)
	return nil
}

func (c *Client) pollLoop(ctx context.Context) {
	defer close(c.done)

	interval := c.cfg.PollInterval
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
			err := c.poll(ctx)
			interval = c.nextInterval(err)
			timer.Reset(interval)
		}
	}
}

// nextInterval computes the poll backoff: 15m after a transient error,
// doubled per additional consecutive error up to 5, capped there; back to
// the default cadence on success.
func (c *Client) nextInterval(pollErr error) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pollErr == nil {
		c.consecutiveErrors = 0
		return c.cfg.PollInterval
	}

	c.consecutiveErrors++
	if c.consecutiveErrors > maxConsecutiveBackoff {
		c.consecutiveErrors = maxConsecutiveBackoff
	}
	backoff := ErrorPollInterval
	for i := 1; i < c.consecutiveErrors; i++ {
		backoff *= 2
	}
	return backoff
}

// Stop signals the polling loop to exit and waits for it to finish.
func (c *Client) Stop() {
	c.once.Do(func() { close(c.stop) })
	<-c.done
}

// poll performs one conditional fetch against the remote endpoint and
// updates the in-memory and on-disk caches on success.
func (c *Client) poll(ctx context.Context) error {
	doc, notModified, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if notModified {
		return nil
	}

	c.mu.Lock()
	c.flags = doc.Flags
	c.apiKeys = doc.APIKeys
	c.registry = doc.Registry
	c.lastUpdateCheck = doc.UpdateCheck
	c.etag = doc.ETag
	c.mu.Unlock()

	if err := c.cache.set(keyFlags, doc.ETag, TTLFlags, doc.Flags); err != nil {
		log.Warn().Err(err).Msg("remoteconfig: persisting flags cache")
	}
	if err := c.cache.set(keyAPIKeys, doc.ETag, TTLAPIKeys, doc.APIKeys); err != nil {
		log.Warn().Err(err).Msg("remoteconfig: persisting api keys cache")
	}
	if err := c.cache.set(keyRegistry, doc.ETag, TTLRegistry, doc.Registry); err != nil {
		log.Warn().Err(err).Msg("remoteconfig: persisting registry cache")
	}
	if err := c.cache.set(keyUpdateCheck, doc.ETag, TTLUpdateCheck, doc.UpdateCheck); err != nil {
		log.Warn().Err(err).Msg("remoteconfig: persisting update-check cache")
	}
	return nil
}

func (c *Client) fetch(ctx context.Context) (remoteDoc, bool, error) {
	q := url.Values{}
	q.Set("product", c.cfg.ProductCode)
	q.Set("app_version", c.cfg.AppVersion)
	q.Set("build", fmt.Sprintf("%d", c.cfg.BuildNumber))
	q.Set("device_id", c.cfg.DeviceID)
	q.Set("plan", c.cfg.Plan)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return remoteDoc{}, false, fmt.Errorf("remoteconfig: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.LicenseKey)

	c.mu.RLock()
	etag := c.etag
	c.mu.RUnlock()
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remoteDoc{}, false, fmt.Errorf("remoteconfig: polling %s: %w", c.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return remoteDoc{}, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return remoteDoc{}, false, fmt.Errorf("remoteconfig: unexpected status %d", resp.StatusCode)
	}

	var doc remoteDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return remoteDoc{}, false, fmt.Errorf("remoteconfig: decoding response: %w", err)
	}
	return doc, false, nil
}

// GetFeatureFlag reports whether key is enabled. An unknown key defaults
// to false.
func (c *Client) GetFeatureFlag(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.flags[key]
}

// GetAPIKey decrypts and returns the API key for provider, if present.
// The second return value is false when no key is cached for that
// provider, or when decryption fails (a corrupt or tampered blob).
func (c *Client) GetAPIKey(provider string) (string, bool) {
	c.mu.RLock()
	blob, ok := c.apiKeys[provider]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	plaintext, err := decryptAPIKey(blob, c.cfg.LicenseKey, c.cfg.DeviceID)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("remoteconfig: decrypting api key")
		return "", false
	}
	return plaintext, true
}

// GetModelRegistry returns the last-fetched model registry list.
func (c *Client) GetModelRegistry() ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.registry == nil {
		return nil, false
	}
	return append([]string(nil), c.registry...), true
}

// GetUpdateCheck returns the last-fetched update-check result.
func (c *Client) GetUpdateCheck() (UpdateCheck, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdateCheck, c.lastUpdateCheck != (UpdateCheck{})
}
