package collector

import (
	"context"
	"fmt"

	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// Network reports one item per network interface.
type Network struct {
	provider provider.Provider
	opts     Options
}

// NewNetwork returns the network collector.
func NewNetwork(p provider.Provider, opts Options) *Network {
	return &Network{provider: p, opts: opts.withDefaults()}
}

func (c *Network) Family() models.Family { return models.FamilyNetwork }

func (c *Network) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyNetwork, label, c.opts.Now())

	ifaces, err := c.provider.NetworkInterfaces(ctx)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureInterfaces) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("list network interfaces: %w", err)
	}

	s.Measurements[models.MeasureInterfaces] = float64(len(ifaces))
	s.Items = make([]models.Item, 0, len(ifaces))
	for _, iface := range ifaces {
		s.Items = append(s.Items, models.Item{
			Name: iface.Name,
			Measurements: map[string]float64{
				models.MeasureMTU:         float64(iface.MTU),
				models.MeasureBytesRecvMB: float64(iface.BytesRecv) / mebibyte,
				models.MeasureBytesSentMB: float64(iface.BytesSent) / mebibyte,
			},
		})
	}
	return s, nil
}
