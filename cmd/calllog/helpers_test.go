package main

import dto "github.com/prometheus/client_model/go"

type emptyGatherer struct{}

func (emptyGatherer) Gather() ([]*dto.MetricFamily, error) { return nil, nil }
