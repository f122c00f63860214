package accessviz

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
)

// refTag holds the cell identifier on grid ways in an OSM extract.
const refTag = "ref"

// LoadGridCatalogOSM reads the grid from an OSM extract of PBF-format.
// Closed ways carrying an integer 'ref' tag become grid cells: the ref
// is the cell identifier and the way ring is the cell polygon. Like the
// GeoJSON loader the load is all-or-nothing.
func LoadGridCatalogOSM(fileName string) (*GridCatalog, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrap(err, "File open")}
	}
	defer f.Close()

	scannerWays := osmpbf.New(context.Background(), f, 4)
	defer scannerWays.Close()

	type cellWay struct {
		id    CellID
		nodes []osm.NodeID
	}
	cellWays := []cellWay{}
	nodesNeeded := make(map[osm.NodeID]orb.Point)

	fmt.Printf("Scanning grid ways...")
	st := time.Now()
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		ref, ok := way.TagMap()[refTag]
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrapf(err, "Way %d has non-integer %s tag", way.ID, refTag)}
		}
		wayNodes := way.Nodes
		if len(wayNodes) < 4 || wayNodes[0].ID != wayNodes[len(wayNodes)-1].ID {
			return nil, &CatalogLoadError{Source: fileName, Err: fmt.Errorf("way %d (%s %d) is not a closed ring", way.ID, refTag, id)}
		}
		cell := cellWay{id: CellID(id), nodes: make([]osm.NodeID, len(wayNodes))}
		for i, wayNode := range wayNodes {
			cell.nodes[i] = wayNode.ID
			nodesNeeded[wayNode.ID] = orb.Point{}
		}
		cellWays = append(cellWays, cell)
	}
	if scannerWays.Err() != nil {
		return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrap(scannerWays.Err(), "Scanner error on Ways")}
	}
	fmt.Printf("Done in %v\n\tGrid ways: %d\n", time.Since(st), len(cellWays))

	// Seek file to start
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrap(err, "Can't repeat seeking")}
	}
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	defer scannerNodes.Close()

	fmt.Printf("Scanning nodes...")
	st = time.Now()
	nodesFound := 0
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesNeeded[node.ID]; ok {
			nodesNeeded[node.ID] = orb.Point{node.Lon, node.Lat}
			nodesFound++
		}
	}
	if scannerNodes.Err() != nil {
		return nil, &CatalogLoadError{Source: fileName, Err: errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")}
	}
	fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), nodesFound)

	if nodesFound != len(nodesNeeded) {
		return nil, &CatalogLoadError{Source: fileName, Err: fmt.Errorf("extract references %d nodes but contains %d", len(nodesNeeded), nodesFound)}
	}

	cells := make([]GridCell, len(cellWays))
	for i, cell := range cellWays {
		ring := make(orb.Ring, len(cell.nodes))
		for j, nodeID := range cell.nodes {
			ring[j] = nodesNeeded[nodeID]
		}
		cells[i] = GridCell{ID: cell.id, Geometry: orb.Polygon{ring}}
	}
	return newGridCatalog(fileName, cells)
}
