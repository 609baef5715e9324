// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache - read side campaign directory
//
// keeps recently fetched campaign records in memory and refreshes the
// directory listing in the background so repeated list requests do not
// scan the database
package cache

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pledgenet/pledged/background"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/fault"
)

const (
	campaignExpiry  = 30 * time.Second
	cleanupInterval = 1 * time.Minute
	refreshInterval = 15 * time.Second

	// key of the directory entry
	directoryKey = "directory"

	// upper bound on the cached directory
	directoryLimit = 1000
)

var globalData struct {
	sync.RWMutex
	log        *logger.L
	cache      *gocache.Cache
	background *background.T

	// set once during initialise
	initialised bool
}

// Initialise - start the cache and its refresh loop
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("cache")
	globalData.log.Info("starting…")

	globalData.cache = gocache.New(campaignExpiry, cleanupInterval)

	globalData.initialised = true

	processes := background.Processes{
		&refresher{log: globalData.log},
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop the refresh loop and drop the cache
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")

	globalData.background.Stop()

	globalData.Lock()
	globalData.cache = nil
	globalData.initialised = false
	globalData.Unlock()

	globalData.log.Flush()
	return nil
}

// Campaign - fetch one campaign, cached
func Campaign(campaignId campaignrecord.CampaignIdentifier) (*campaignrecord.Campaign, error) {
	globalData.RLock()
	c := globalData.cache
	globalData.RUnlock()

	if nil == c {
		return campaign.Fetch(campaignId)
	}

	key := campaignId.String()
	if entry, found := c.Get(key); found {
		return entry.(*campaignrecord.Campaign), nil
	}

	state, err := campaign.Fetch(campaignId)
	if nil != err {
		return nil, err
	}
	c.Set(key, state, campaignExpiry)
	return state, nil
}

// Invalidate - drop one campaign after its state changed
func Invalidate(campaignId campaignrecord.CampaignIdentifier) {
	globalData.RLock()
	c := globalData.cache
	globalData.RUnlock()

	if nil != c {
		c.Delete(campaignId.String())
		c.Delete(directoryKey)
	}
}

// Directory - the campaign listing, cached
func Directory() ([]campaign.Info, error) {
	globalData.RLock()
	c := globalData.cache
	globalData.RUnlock()

	if nil == c {
		return campaign.List(directoryLimit)
	}

	if entry, found := c.Get(directoryKey); found {
		return entry.([]campaign.Info), nil
	}

	infos, err := campaign.List(directoryLimit)
	if nil != err {
		return nil, err
	}
	c.Set(directoryKey, infos, campaignExpiry)
	return infos, nil
}

// periodically rebuild the directory entry
type refresher struct {
	log *logger.L
}

func (r *refresher) Run(args interface{}, shutdown <-chan struct{}) {
	timer := time.NewTicker(refreshInterval)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-timer.C:
			r.refresh()
		}
	}
	timer.Stop()
}

func (r *refresher) refresh() {
	globalData.RLock()
	c := globalData.cache
	globalData.RUnlock()

	if nil == c {
		return
	}

	infos, err := campaign.List(directoryLimit)
	if nil != err {
		r.log.Errorf("refresh error: %s", err)
		return
	}

	c.Set(directoryKey, infos, campaignExpiry)
	for _, info := range infos {
		c.Set(info.CampaignId.String(), info.Campaign, campaignExpiry)
	}
	r.log.Debugf("refreshed: %d campaigns", len(infos))
}
