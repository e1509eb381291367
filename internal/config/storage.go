package config

import "path"

// StorageType selects where a storage role's data lives.
type StorageType string

const (
	// StorageAutoVolume mounts an automatically named docker volume.
	StorageAutoVolume StorageType = "auto-volume"
	// StorageManualVolume mounts a caller-named docker volume.
	StorageManualVolume StorageType = "manual-volume"
	// StorageHost bind-mounts a host directory.
	StorageHost StorageType = "host"
	// StorageImage bakes the data into the image itself.
	StorageImage StorageType = "image"
)

// Storage roles with conventional in-container destinations.
const (
	RoleApp       = "app"
	RoleData      = "data"
	RoleWorkspace = "workspace"
)

// softRoot is the prefix for externally mounted storage destinations; data
// baked into the image lives under hardRoot and is linked into softRoot at
// container start.
const (
	softRoot = "/soft"
	hardRoot = "/hard/volume"
)

// Storage binds one storage role (app, data, workspace, ...) to a backing
// location.
type Storage struct {
	Type StorageType
	// HostPath backs the mount when Type is StorageHost.
	HostPath string
	// VolumeName names the docker volume when Type is StorageManualVolume.
	VolumeName string
	// DstPath is the in-container destination. Defaults to the role's
	// conventional path under /soft.
	DstPath string
}

// NewStorage validates and returns a Storage for the named role.
func NewStorage(role, typ, hostPath, volumeName, dstPath string) (Storage, error) {
	field := func(f string) string { return "storage." + role + "." + f }

	st := StorageType(typ)
	switch st {
	case StorageAutoVolume, StorageManualVolume, StorageHost, StorageImage:
	default:
		return Storage{}, errf(field("type"), typ, "must be one of auto-volume, manual-volume, host, image")
	}
	if st == StorageHost && hostPath == "" {
		return Storage{}, errf(field("host_path"), "", "required when type is host")
	}
	if st != StorageHost && hostPath != "" {
		return Storage{}, errf(field("host_path"), hostPath, "only valid when type is host")
	}
	if st == StorageManualVolume && volumeName == "" {
		return Storage{}, errf(field("volume_name"), "", "required when type is manual-volume")
	}
	if st != StorageManualVolume && volumeName != "" {
		return Storage{}, errf(field("volume_name"), volumeName, "only valid when type is manual-volume")
	}
	if dstPath == "" {
		dstPath = DefaultDstPath(role)
	}
	return Storage{Type: st, HostPath: hostPath, VolumeName: volumeName, DstPath: dstPath}, nil
}

// DefaultDstPath returns the conventional in-container destination for a
// storage role, e.g. "/soft/data" for the data role.
func DefaultDstPath(role string) string {
	return path.Join(softRoot, role)
}

// ImagePath returns the image-baked location for a storage role, used when
// the role's type is StorageImage.
func ImagePath(role string) string {
	return path.Join(hardRoot, role)
}
