package accessviz

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const gpkgSRSID = 4326

// GeoPackageWriter persists layers into one shared GeoPackage: a SQLite
// container with the gpkg_* metadata tables and one feature table per
// layer. Layer names follow the same suffix convention as discrete
// files, so a batch written to a container round-trips by layer name.
type GeoPackageWriter struct {
	db   *sql.DB
	path string
}

// NewGeoPackageWriter opens (or creates) the container and installs the
// GeoPackage metadata tables.
func NewGeoPackageWriter(path string) (*GeoPackageWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open geopackage")
	}

	// GPKG application id and version stamp, then the required metadata
	// tables (spatial_ref_sys rows 4326 / -1 / 0 are mandated by the
	// GeoPackage spec).
	_, err = db.Exec(`
		PRAGMA application_id = 1196444487;
		PRAGMA user_version = 10200;

		CREATE TABLE IF NOT EXISTS gpkg_spatial_ref_sys (
			srs_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL PRIMARY KEY,
			organization TEXT NOT NULL,
			organization_coordsys_id INTEGER NOT NULL,
			definition TEXT NOT NULL,
			description TEXT
		);
		INSERT OR IGNORE INTO gpkg_spatial_ref_sys VALUES
			('WGS 84', 4326, 'EPSG', 4326, 'GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]', NULL),
			('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', NULL),
			('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', NULL);

		CREATE TABLE IF NOT EXISTS gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT UNIQUE,
			description TEXT DEFAULT '',
			last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE,
			srs_id INTEGER,
			CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
		);

		CREATE TABLE IF NOT EXISTS gpkg_geometry_columns (
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL,
			z TINYINT NOT NULL,
			m TINYINT NOT NULL,
			CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name)
		);
	`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Can't install geopackage metadata tables")
	}
	return &GeoPackageWriter{db: db, path: path}, nil
}

// WriteLayer adds one layer as a feature table named after the layer.
// Re-writing an existing layer replaces it.
func (writer *GeoPackageWriter) WriteLayer(layer *JoinedLayer) error {
	columnDefs := make([]string, 0, len(layer.Columns))
	for _, column := range layer.Columns {
		columnDefs = append(columnDefs, fmt.Sprintf(`"%s" DOUBLE`, column))
	}
	_, err := writer.db.Exec(fmt.Sprintf(`
		DROP TABLE IF EXISTS "%[1]s";
		CREATE TABLE "%[1]s" (
			fid INTEGER PRIMARY KEY AUTOINCREMENT,
			geom BLOB,
			"%[2]s" INTEGER,
			%[3]s
		);
	`, layer.Name, joinKey, strings.Join(columnDefs, ",\n\t\t\t")))
	if err != nil {
		return errors.Wrapf(err, "Can't create feature table '%s'", layer.Name)
	}

	placeholders := make([]string, 0, len(layer.Columns)+2)
	columnNames := []string{"geom", fmt.Sprintf(`"%s"`, joinKey)}
	placeholders = append(placeholders, "?", "?")
	for _, column := range layer.Columns {
		columnNames = append(columnNames, fmt.Sprintf(`"%s"`, column))
		placeholders = append(placeholders, "?")
	}
	insertQuery := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		layer.Name, strings.Join(columnNames, ", "), strings.Join(placeholders, ", "))

	tx, err := writer.db.Begin()
	if err != nil {
		return errors.Wrap(err, "Can't begin transaction")
	}
	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "Can't prepare insert for layer '%s'", layer.Name)
	}
	defer stmt.Close()

	for _, row := range layer.Rows {
		blob, err := gpkgGeometryBlob(row.Geometry)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "Can't encode geometry for %s %d", joinKey, row.ID)
		}
		args := make([]interface{}, 0, len(layer.Columns)+2)
		args = append(args, blob, int64(row.ID))
		for _, column := range layer.Columns {
			args = append(args, row.Measures[column].Sentinel())
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "Can't insert %s %d", joinKey, row.ID)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO gpkg_contents (table_name, data_type, identifier, srs_id) VALUES (?, 'features', ?, ?);
	`, layer.Name, layer.Name, gpkgSRSID)
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "Can't register layer '%s' in gpkg_contents", layer.Name)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id, z, m) VALUES (?, 'geom', 'POLYGON', ?, 0, 0);
	`, layer.Name, gpkgSRSID)
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "Can't register layer '%s' in gpkg_geometry_columns", layer.Name)
	}
	return tx.Commit()
}

// LayerNames lists the feature layers registered in the container.
func (writer *GeoPackageWriter) LayerNames() ([]string, error) {
	rows, err := writer.db.Query(`SELECT table_name FROM gpkg_contents WHERE data_type = 'features' ORDER BY table_name`)
	if err != nil {
		return nil, errors.Wrap(err, "Can't list layers")
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "Can't scan layer name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close flushes and closes the container.
func (writer *GeoPackageWriter) Close() error {
	return writer.db.Close()
}

// gpkgGeometryBlob encodes a polygon as a GeoPackage binary: the 'GP'
// header (version 0, little-endian flag, no envelope) followed by
// little-endian WKB.
func gpkgGeometryBlob(polygon orb.Polygon) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('G')
	buf.WriteByte('P')
	buf.WriteByte(0x00) // version
	buf.WriteByte(0x01) // flags: little-endian, envelope omitted
	if err := binary.Write(&buf, binary.LittleEndian, int32(gpkgSRSID)); err != nil {
		return nil, err
	}
	data, err := wkb.Marshal(polygon, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	buf.Write(data)
	return buf.Bytes(), nil
}
